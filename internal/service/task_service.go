package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/authz"
	"github.com/spec-kit/casework-service/internal/domain"
	"github.com/spec-kit/casework-service/internal/events"
	"github.com/spec-kit/casework-service/internal/repository"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

// TaskService coordinates case task workflows.
type TaskService struct {
	tasks      repository.TaskRepository
	cases      repository.CaseRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
}

// TaskDependencies bundles repositories.
type TaskDependencies struct {
	TaskRepo   repository.TaskRepository
	CaseRepo   repository.CaseRepository
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
}

// TaskCreateInput describes the task creation payload.
type TaskCreateInput struct {
	CaseID     string
	AssignedTo *string
	Title      string
	Details    string
	DueDate    *time.Time
}

// TaskUpdateInput describes mutable task fields.
type TaskUpdateInput struct {
	AssignedTo *string
	Title      *string
	Details    *string
	Status     *domain.TaskStatus
	DueDate    *time.Time
}

// TaskListInput describes user-supplied list filters.
type TaskListInput struct {
	CaseID   *string
	Statuses []domain.TaskStatus
	DueFrom  *time.Time
	DueTo    *time.Time
	Limit    int
	Offset   int
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		cases:      deps.CaseRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTask opens a task on a case.
func (s *TaskService) CreateTask(ctx context.Context, actor *authz.Caller, input TaskCreateInput) (*domain.Task, error) {
	kase, err := s.cases.GetByID(ctx, input.CaseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": input.CaseID})
		}
		return nil, apperrors.MapError(err)
	}

	if input.AssignedTo != nil {
		if err := s.validateAssignee(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		CaseID:     kase.ID,
		AssignedTo: input.AssignedTo,
		Title:      strings.TrimSpace(input.Title),
		Details:    strings.TrimSpace(input.Details),
		Status:     domain.TaskStatusPending,
		DueDate:    input.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	if task.AssignedTo != nil {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventTaskAssigned,
			CaseID:  kase.ID,
			Actor:   staffActor(actor.ID),
			Payload: events.TaskAssignedPayload{TaskID: task.ID, AssignedTo: task.AssignedTo},
		})
	}
	return task, nil
}

// GetTask loads a single task. Access was already granted.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

// ListTasks applies the request scope on top of the user filter. For
// staff-like callers the scope carries assigned-to, making this "my tasks".
func (s *TaskService) ListTasks(ctx context.Context, scope *authz.Scope, input TaskListInput) ([]domain.Task, error) {
	filter := repository.TaskFilter{
		CaseID:   input.CaseID,
		Statuses: input.Statuses,
		DueFrom:  input.DueFrom,
		DueTo:    input.DueTo,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if scope != nil {
		filter.AssignedTo = scope.AssignedTo
		if scope.AssignedTo == nil {
			filter.OfficeID = scope.OfficeID
		}
	}
	tasks, err := s.tasks.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update.
func (s *TaskService) UpdateTask(ctx context.Context, actor *authz.Caller, id string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	oldAssignee := task.AssignedTo

	if input.AssignedTo != nil {
		if *input.AssignedTo != "" {
			if err := s.validateAssignee(ctx, *input.AssignedTo); err != nil {
				return nil, err
			}
			task.AssignedTo = input.AssignedTo
		} else {
			task.AssignedTo = nil
		}
	}
	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Details != nil {
		task.Details = strings.TrimSpace(*input.Details)
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	if !equalPtr(oldAssignee, task.AssignedTo) && task.AssignedTo != nil {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventTaskAssigned,
			CaseID:  task.CaseID,
			Actor:   staffActor(actor.ID),
			Payload: events.TaskAssignedPayload{TaskID: task.ID, AssignedTo: task.AssignedTo},
		})
	}
	return task, nil
}

// DeleteTask soft-deletes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.tasks.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("task", map[string]any{"task_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TaskService) validateAssignee(ctx context.Context, staffID string) error {
	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return apperrors.MapError(err)
	}
	if !member.Active {
		return apperrors.NewConflict("assignee inactive", map[string]any{"staff_id": staffID})
	}
	return nil
}

func (s *TaskService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
