package domain

import "time"

// AppointmentStatus enumerates appointment lifecycle states.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is a scheduled meeting on a case. It references exactly one
// case (and through it an office), carries its own department value, and is
// always assigned to exactly one staff member.
type Appointment struct {
	ID          string
	CaseID      string
	StaffID     string
	Department  string
	ScheduledAt time.Time
	DurationMin int
	Status      AppointmentStatus
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
