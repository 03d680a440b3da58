package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medminder/internal/model"
	apperrors "github.com/jwalitptl/medminder/pkg/errors"
	"github.com/jwalitptl/medminder/pkg/logger"
	"github.com/jwalitptl/medminder/pkg/metrics"
)

type fakeAppointmentStore struct {
	items map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{items: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentStore) Create(_ context.Context, apt *model.Appointment) error {
	f.items[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentStore) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return apt, nil
}

func (f *fakeAppointmentStore) ListBooked(_ context.Context, clinicianID uuid.UUID, date string, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.items {
		if apt.ClinicianID != clinicianID || apt.Status != model.AppointmentStatusBooked {
			continue
		}
		if apt.BookedDate == nil || *apt.BookedDate != date {
			continue
		}
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		out = append(out, apt)
	}
	return out, nil
}

func (f *fakeAppointmentStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	apt, ok := f.items[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	apt.Status = status
	return nil
}

func (f *fakeAppointmentStore) UpdateBooking(_ context.Context, id uuid.UUID, date, clock string) error {
	apt, ok := f.items[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	apt.Status = model.AppointmentStatusBooked
	apt.BookedDate = &date
	apt.BookedTime = &clock
	return nil
}

func (f *fakeAppointmentStore) addBooked(clinicianID uuid.UUID, date, clock string) *model.Appointment {
	apt := &model.Appointment{
		ID:          uuid.New(),
		ClinicianID: clinicianID,
		PatientID:   uuid.New(),
		Status:      model.AppointmentStatusBooked,
		BookedDate:  &date,
		BookedTime:  &clock,
	}
	f.items[apt.ID] = apt
	return apt
}

func newTestService(store *fakeAppointmentStore) *Service {
	return NewService(store, DefaultSlotBuffer, time.UTC, logger.FromZerolog(zerolog.Nop()), metrics.New("booking_test"))
}

func TestCheckSlotConflicts(t *testing.T) {
	store := newFakeAppointmentStore()
	clinicianID := uuid.New()
	store.addBooked(clinicianID, "2024-01-15", "09:00")
	store.addBooked(clinicianID, "2024-01-15", "09:10")

	svc := newTestService(store)
	ctx := context.Background()

	tests := []struct {
		clock string
		want  bool
	}{
		{"09:12", false}, // 2 minutes from 09:10
		{"09:30", true},  // 20 minutes from 09:10, 30 from 09:00
		{"09:25", true},  // exactly 15 minutes from 09:10
		{"08:46", false}, // 14 minutes from 09:00
		{"08:45", true},  // exactly 15 minutes from 09:00
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			available, err := svc.CheckSlot(ctx, clinicianID, "2024-01-15", tt.clock, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, available)
		})
	}
}

func TestCheckSlotIgnoresOtherStatuses(t *testing.T) {
	store := newFakeAppointmentStore()
	clinicianID := uuid.New()

	pendingDate, pendingTime := "2024-01-15", "09:00"
	store.items[uuid.New()] = &model.Appointment{
		ID:          uuid.New(),
		ClinicianID: clinicianID,
		Status:      model.AppointmentStatusPending,
		BookedDate:  &pendingDate,
		BookedTime:  &pendingTime,
	}

	svc := newTestService(store)

	available, err := svc.CheckSlot(context.Background(), clinicianID, "2024-01-15", "09:00", nil)
	require.NoError(t, err)
	assert.True(t, available, "pending appointments do not constrain new bookings")
}

func TestCheckSlotIgnoresOtherClinicians(t *testing.T) {
	store := newFakeAppointmentStore()
	store.addBooked(uuid.New(), "2024-01-15", "09:00")

	svc := newTestService(store)

	available, err := svc.CheckSlot(context.Background(), uuid.New(), "2024-01-15", "09:00", nil)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCheckSlotExcludesGivenAppointment(t *testing.T) {
	store := newFakeAppointmentStore()
	clinicianID := uuid.New()
	apt := store.addBooked(clinicianID, "2024-01-15", "09:00")

	svc := newTestService(store)
	ctx := context.Background()

	available, err := svc.CheckSlot(ctx, clinicianID, "2024-01-15", "09:05", nil)
	require.NoError(t, err)
	assert.False(t, available)

	// Moving the same appointment by 5 minutes must not conflict with itself.
	available, err = svc.CheckSlot(ctx, clinicianID, "2024-01-15", "09:05", &apt.ID)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCheckSlotRejectsMalformedInput(t *testing.T) {
	svc := newTestService(newFakeAppointmentStore())
	ctx := context.Background()
	clinicianID := uuid.New()

	tests := []struct {
		name  string
		date  string
		clock string
	}{
		{"bad date", "15/01/2024", "09:00"},
		{"bad time", "2024-01-15", "9am"},
		{"empty", "", ""},
		{"swapped", "09:00", "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, err := svc.CheckSlot(ctx, clinicianID, tt.date, tt.clock, nil)
			require.NoError(t, err)
			assert.False(t, available, "malformed input fails safe")
		})
	}
}

func TestBook(t *testing.T) {
	store := newFakeAppointmentStore()
	clinicianID := uuid.New()
	store.addBooked(clinicianID, "2024-01-15", "09:00")

	pending := &model.Appointment{
		ID:          uuid.New(),
		ClinicianID: clinicianID,
		PatientID:   uuid.New(),
		Status:      model.AppointmentStatusAccepted,
	}
	store.items[pending.ID] = pending

	svc := newTestService(store)
	ctx := context.Background()

	err := svc.Book(ctx, pending.ID, "2024-01-15", "09:05")
	require.Error(t, err, "slot inside the buffer must be rejected")
	assert.Equal(t, model.AppointmentStatusAccepted, pending.Status)

	require.NoError(t, svc.Book(ctx, pending.ID, "2024-01-15", "10:00"))
	assert.Equal(t, model.AppointmentStatusBooked, pending.Status)
	require.NotNil(t, pending.BookedTime)
	assert.Equal(t, "10:00", *pending.BookedTime)
}

func TestBookCancelled(t *testing.T) {
	store := newFakeAppointmentStore()
	apt := &model.Appointment{
		ID:          uuid.New(),
		ClinicianID: uuid.New(),
		Status:      model.AppointmentStatusCancelled,
	}
	store.items[apt.ID] = apt

	svc := newTestService(store)

	err := svc.Book(context.Background(), apt.ID, "2024-01-15", "10:00")
	require.Error(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, apt.Status)
}

func TestStatusTransitions(t *testing.T) {
	store := newFakeAppointmentStore()
	apt := &model.Appointment{
		ID:          uuid.New(),
		ClinicianID: uuid.New(),
		Status:      model.AppointmentStatusPending,
	}
	store.items[apt.ID] = apt

	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, svc.Accept(ctx, apt.ID))
	assert.Equal(t, model.AppointmentStatusAccepted, apt.Status)

	require.Error(t, svc.Accept(ctx, apt.ID), "accept is only valid from pending")

	require.NoError(t, svc.Cancel(ctx, apt.ID))
	assert.Equal(t, model.AppointmentStatusCancelled, apt.Status)

	require.Error(t, svc.Cancel(ctx, apt.ID))
}
