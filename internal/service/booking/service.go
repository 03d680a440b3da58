package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medminder/internal/model"
	"github.com/jwalitptl/medminder/internal/repository"
	apperrors "github.com/jwalitptl/medminder/pkg/errors"
	"github.com/jwalitptl/medminder/pkg/logger"
	"github.com/jwalitptl/medminder/pkg/metrics"
)

// DefaultSlotBuffer is the minimum separation between two booked slots for
// the same clinician.
const DefaultSlotBuffer = 15 * time.Minute

type Service struct {
	appointments repository.AppointmentRepository
	buffer       time.Duration
	loc          *time.Location
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewService(appointments repository.AppointmentRepository, buffer time.Duration, loc *time.Location, logger *logger.Logger, m *metrics.Metrics) *Service {
	if buffer <= 0 {
		buffer = DefaultSlotBuffer
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		appointments: appointments,
		buffer:       buffer,
		loc:          loc,
		logger:       logger,
		metrics:      m,
	}
}

// CheckSlot reports whether a candidate slot is free for the clinician.
// Only status=booked appointments constrain the slot; excludeID lets an
// update skip the appointment being moved. Malformed date or time input is
// reported as unavailable rather than approved.
func (s *Service) CheckSlot(ctx context.Context, clinicianID uuid.UUID, date, clock string, excludeID *uuid.UUID) (bool, error) {
	candidate, err := model.ParseSlot(date, clock, s.loc)
	if err != nil {
		s.logger.Warn("rejecting malformed slot", "date", date, "time", clock)
		s.metrics.SlotChecks.WithLabelValues("malformed").Inc()
		return false, nil
	}

	booked, err := s.appointments.ListBooked(ctx, clinicianID, date, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to list booked appointments: %w", err)
	}

	for _, apt := range booked {
		at, err := apt.BookedAt(s.loc)
		if err != nil {
			// A stored row we cannot parse cannot be compared; skip it.
			s.logger.Warn("skipping appointment with unparsable slot", "appointment_id", apt.ID.String())
			continue
		}
		if absDiff(candidate, at) < s.buffer {
			s.metrics.SlotChecks.WithLabelValues("conflict").Inc()
			return false, nil
		}
	}

	s.metrics.SlotChecks.WithLabelValues("available").Inc()
	return true, nil
}

// Book confirms an appointment into a slot after validating availability.
// The unique constraint on (clinician_id, booked_date, booked_time) closes
// the exact-duplicate race; near-miss slots inside the buffer remain a
// read-then-write check.
func (s *Service) Book(ctx context.Context, id uuid.UUID, date, clock string) error {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return apperrors.BadRequest("cannot book a cancelled appointment", nil)
	}

	available, err := s.CheckSlot(ctx, apt.ClinicianID, date, clock, &id)
	if err != nil {
		return err
	}
	if !available {
		return apperrors.Conflict("time slot is not available", nil)
	}

	if err := s.appointments.UpdateBooking(ctx, id, date, clock); err != nil {
		return fmt.Errorf("failed to book appointment: %w", err)
	}
	return nil
}

func (s *Service) Accept(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, model.AppointmentStatusAccepted, model.AppointmentStatusPending)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}
	if apt.Status == model.AppointmentStatusCancelled {
		return apperrors.BadRequest("appointment is already cancelled", nil)
	}
	return s.appointments.UpdateStatus(ctx, id, model.AppointmentStatusCancelled)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, from ...model.AppointmentStatus) error {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}
	for _, st := range from {
		if apt.Status == st {
			return s.appointments.UpdateStatus(ctx, id, to)
		}
	}
	return apperrors.BadRequest(fmt.Sprintf("cannot move appointment from %s to %s", apt.Status, to), nil)
}

func absDiff(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
