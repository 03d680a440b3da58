package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medminder/internal/model"
)

func (r *reminderRepository) Exists(ctx context.Context, prescriptionID uuid.UUID, medicine string, scheduledAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reminder_records
			WHERE prescription_id = $1
			AND medicine = $2
			AND scheduled_at = $3
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, prescriptionID, medicine, scheduledAt)
	if err != nil {
		return false, fmt.Errorf("failed to check reminder record: %w", err)
	}
	return exists, nil
}

// Create inserts a ledger entry for a sent reminder. A duplicate-key conflict
// means another sweep already recorded this dose; that is success, not an
// error.
func (r *reminderRepository) Create(ctx context.Context, rec *model.ReminderRecord) error {
	query := `
		INSERT INTO reminder_records (id, prescription_id, medicine, scheduled_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.PrescriptionID,
		rec.Medicine,
		rec.ScheduledAt,
		rec.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create reminder record: %w", err)
	}
	return nil
}
