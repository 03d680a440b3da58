package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medminder/internal/model"
)

// All repository interfaces in one file
type (
	// PrescriptionRepository owns prescriptions and their dependents.
	// Delete cascades to taken doses and reminder records.
	PrescriptionRepository interface {
		Create(ctx context.Context, p *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListActive(ctx context.Context, asOf time.Time) ([]*model.Prescription, error)
		ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*model.Prescription, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	// TakenDoseRepository is append-only; Create enforces uniqueness on the
	// exact (prescription, medicine, taken_at) triple.
	TakenDoseRepository interface {
		Create(ctx context.Context, dose *model.TakenDose) error
		ExistsInRange(ctx context.Context, prescriptionID uuid.UUID, medicine string, from, to time.Time) (bool, error)
	}

	// ReminderRepository is the dedup ledger for sent reminders. Create must
	// treat a duplicate-key conflict as success: the unique constraint is the
	// linearization point for concurrent sweeps.
	ReminderRepository interface {
		Exists(ctx context.Context, prescriptionID uuid.UUID, medicine string, scheduledAt time.Time) (bool, error)
		Create(ctx context.Context, rec *model.ReminderRecord) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		ListBooked(ctx context.Context, clinicianID uuid.UUID, date string, excludeID *uuid.UUID) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
		UpdateBooking(ctx context.Context, id uuid.UUID, date, clock string) error
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	}
)
