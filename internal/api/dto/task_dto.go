package dto

import (
	"time"

	"github.com/spec-kit/casework-service/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	CaseID     string     `json:"case_id"`
	AssignedTo *string    `json:"assigned_to"`
	Title      string     `json:"title"`
	Details    string     `json:"details"`
	DueDate    *time.Time `json:"due_date"`
}

// UpdateTaskRequest payload. Omitted fields stay unchanged.
type UpdateTaskRequest struct {
	AssignedTo *string            `json:"assigned_to"`
	Title      *string            `json:"title"`
	Details    *string            `json:"details"`
	Status     *domain.TaskStatus `json:"status"`
	DueDate    *time.Time         `json:"due_date"`
}

// TaskResponse response.
type TaskResponse struct {
	ID         string            `json:"id"`
	CaseID     string            `json:"case_id"`
	AssignedTo *string           `json:"assigned_to"`
	Title      string            `json:"title"`
	Details    string            `json:"details"`
	Status     domain.TaskStatus `json:"status"`
	DueDate    *time.Time        `json:"due_date"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
