package dto

import (
	"time"

	"github.com/spec-kit/casework-service/internal/domain"
)

// CreateAppointmentRequest payload.
type CreateAppointmentRequest struct {
	CaseID      string    `json:"case_id"`
	StaffID     string    `json:"staff_id"`
	Department  string    `json:"department"`
	ScheduledAt time.Time `json:"scheduled_at"`
	DurationMin int       `json:"duration_min"`
	Notes       string    `json:"notes"`
}

// UpdateAppointmentRequest payload. Omitted fields stay unchanged.
type UpdateAppointmentRequest struct {
	StaffID     *string                   `json:"staff_id"`
	ScheduledAt *time.Time                `json:"scheduled_at"`
	DurationMin *int                      `json:"duration_min"`
	Status      *domain.AppointmentStatus `json:"status"`
	Notes       *string                   `json:"notes"`
}

// AppointmentResponse response.
type AppointmentResponse struct {
	ID          string                   `json:"id"`
	CaseID      string                   `json:"case_id"`
	StaffID     string                   `json:"staff_id"`
	Department  string                   `json:"department"`
	ScheduledAt time.Time                `json:"scheduled_at"`
	DurationMin int                      `json:"duration_min"`
	Status      domain.AppointmentStatus `json:"status"`
	Notes       string                   `json:"notes"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}
