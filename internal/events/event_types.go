package events

import (
	"time"

	"github.com/spec-kit/casework-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCaseCreated          EventType = "case_created"
	EventCaseStatusChanged    EventType = "case_status_changed"
	EventCaseAssigned         EventType = "case_assigned"
	EventCaseGrantChanged     EventType = "case_grant_changed"
	EventAppointmentScheduled EventType = "appointment_scheduled"
	EventTaskAssigned         EventType = "task_assigned"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type     domain.SubjectType `json:"type"`
	ClientID *string            `json:"client_id,omitempty"`
	StaffID  *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CaseID    string      `json:"case_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CaseCreatedPayload payload.
type CaseCreatedPayload struct {
	OfficeID   string            `json:"office_id"`
	Department string            `json:"department"`
	Status     domain.CaseStatus `json:"status"`
	Title      string            `json:"title"`
}

// CaseStatusChangedPayload payload.
type CaseStatusChangedPayload struct {
	OldStatus domain.CaseStatus `json:"old_status"`
	NewStatus domain.CaseStatus `json:"new_status"`
	Comment   string            `json:"comment,omitempty"`
}

// CaseAssignedPayload payload.
type CaseAssignedPayload struct {
	PrimaryStaffID *string `json:"primary_staff_id,omitempty"`
}

// CaseGrantChangedPayload payload.
type CaseGrantChangedPayload struct {
	StaffID string `json:"staff_id"`
	Granted bool   `json:"granted"`
}

// AppointmentScheduledPayload payload.
type AppointmentScheduledPayload struct {
	AppointmentID string    `json:"appointment_id"`
	StaffID       string    `json:"staff_id"`
	Department    string    `json:"department"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

// TaskAssignedPayload payload.
type TaskAssignedPayload struct {
	TaskID     string  `json:"task_id"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}
