package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/medminder/pkg/errors"

	"github.com/jwalitptl/medminder/internal/model"
)

func (r *takenDoseRepository) Create(ctx context.Context, dose *model.TakenDose) error {
	query := `
		INSERT INTO taken_doses (id, prescription_id, medicine, taken_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if dose.ID == uuid.Nil {
		dose.ID = uuid.New()
	}
	dose.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		dose.ID,
		dose.PrescriptionID,
		dose.Medicine,
		dose.TakenAt,
		dose.CreatedAt,
	)
	if isUniqueViolation(err) {
		return apperrors.BadRequest("dose already logged at this time", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create taken dose: %w", err)
	}
	return nil
}

func (r *takenDoseRepository) ExistsInRange(ctx context.Context, prescriptionID uuid.UUID, medicine string, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM taken_doses
			WHERE prescription_id = $1
			AND medicine = $2
			AND taken_at >= $3
			AND taken_at <= $4
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, prescriptionID, medicine, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to check taken doses: %w", err)
	}
	return exists, nil
}
