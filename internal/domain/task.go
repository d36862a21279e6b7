package domain

import "time"

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Task is a unit of work on a case, optionally assigned to a staff member.
// Tasks are soft-deleted; a task with DeletedAt set is invisible everywhere,
// including the task-link access path on its case.
type Task struct {
	ID         string
	CaseID     string
	AssignedTo *string
	Title      string
	Details    string
	Status     TaskStatus
	DueDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}
