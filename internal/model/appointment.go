package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusAccepted  AppointmentStatus = "accepted"
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

const (
	SlotDateLayout = "2006-01-02"
	SlotTimeLayout = "15:04"
)

// Appointment is a booking request between a patient and a clinician.
// BookedDate and BookedTime are set when the clinician confirms a slot;
// only status=booked rows participate in slot-conflict checks.
type Appointment struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	ClinicianID uuid.UUID         `db:"clinician_id" json:"clinician_id"`
	PatientID   uuid.UUID         `db:"patient_id" json:"patient_id"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Reason      string            `db:"reason" json:"reason,omitempty"`
	BookedDate  *string           `db:"booked_date" json:"booked_date,omitempty"`
	BookedTime  *string           `db:"booked_time" json:"booked_time,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// BookedAt combines the booked date and time into a single instant in loc.
func (a *Appointment) BookedAt(loc *time.Location) (time.Time, error) {
	if a.BookedDate == nil || a.BookedTime == nil {
		return time.Time{}, fmt.Errorf("appointment %s has no booked slot", a.ID)
	}
	return ParseSlot(*a.BookedDate, *a.BookedTime, loc)
}

// ParseSlot parses a (date, clock) pair into an instant in loc.
func ParseSlot(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(SlotDateLayout+" "+SlotTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot %q %q: %w", date, clock, err)
	}
	return t, nil
}
