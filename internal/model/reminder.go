package model

import (
	"time"

	"github.com/google/uuid"
)

// ReminderRecord marks that a reminder was sent for one scheduled dose.
// Write-once per (prescription_id, medicine, scheduled_at); the unique
// constraint on that triple is what makes reminder delivery at-most-once.
// Never read for anything except the existence check.
type ReminderRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	Medicine       string    `db:"medicine" json:"medicine"`
	ScheduledAt    time.Time `db:"scheduled_at" json:"scheduled_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
