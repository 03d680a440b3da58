package model

import (
	"time"

	"github.com/google/uuid"
)

// TakenDose records that a patient logged a dose of a medicine. Append-only;
// the (prescription_id, medicine, taken_at) triple is unique so the identical
// instant cannot be logged twice. Multiple distinct events near the same
// scheduled time are allowed.
type TakenDose struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescription_id"`
	Medicine       string    `db:"medicine" json:"medicine"`
	TakenAt        time.Time `db:"taken_at" json:"taken_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
