package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/medminder/pkg/errors"

	"github.com/jwalitptl/medminder/internal/model"
)

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (
			id, clinician_id, patient_id, medicines,
			notes, duration_days, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ClinicianID,
		p.PatientID,
		p.Medicines,
		p.Notes,
		p.DurationDays,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `
		SELECT id, clinician_id, patient_id, medicines,
			   notes, duration_days, created_at
		FROM prescriptions
		WHERE id = $1
	`
	var p model.Prescription
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("prescription", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &p, nil
}

func (r *prescriptionRepository) ListActive(ctx context.Context, asOf time.Time) ([]*model.Prescription, error) {
	query := `
		SELECT id, clinician_id, patient_id, medicines,
			   notes, duration_days, created_at
		FROM prescriptions
		WHERE created_at + duration_days * INTERVAL '1 day' >= $1
		ORDER BY created_at ASC
	`
	var prescriptions []*model.Prescription
	err := r.db.SelectContext(ctx, &prescriptions, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]*model.Prescription, error) {
	query := `
		SELECT id, clinician_id, patient_id, medicines,
			   notes, duration_days, created_at
		FROM prescriptions
		WHERE created_at::date <= $1::date
		ORDER BY created_at ASC
	`
	var prescriptions []*model.Prescription
	err := r.db.SelectContext(ctx, &prescriptions, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

// Delete removes a prescription. Taken doses and reminder records go with it
// via ON DELETE CASCADE.
func (r *prescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM prescriptions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("prescription", nil)
	}

	return nil
}
