package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DosingRule is one medicine's dosing instruction within a prescription.
// Frequency and Duration are free-form labels; unrecognized values fall back
// to safe defaults at scheduling time rather than failing the prescription.
type DosingRule struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// Medicines is the JSONB-encoded list of dosing rules on a prescription.
type Medicines []DosingRule

func (m Medicines) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Medicines) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for medicines: %T", src)
	}
}

type Prescription struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ClinicianID  uuid.UUID `db:"clinician_id" json:"clinician_id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	Medicines    Medicines `db:"medicines" json:"medicines"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ExpiresAt is the end of the prescription's validity window. CreatedAt is
// the scheduling anchor for every dosing rule on the prescription.
func (p *Prescription) ExpiresAt() time.Time {
	return p.CreatedAt.AddDate(0, 0, p.DurationDays)
}

func (p *Prescription) Expired(now time.Time) bool {
	return p.DurationDays > 0 && p.ExpiresAt().Before(now)
}
