package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/domain"
)

// TaskStore loads a live task together with its parent case's office.
// Soft-deleted tasks are absent from the store's point of view.
type TaskStore interface {
	GetWithCaseOffice(ctx context.Context, id string) (*domain.Task, string, error)
}

// TaskEvaluator decides access to individual tasks.
type TaskEvaluator struct {
	tasks       TaskStore
	assignments AssignmentStore
}

// NewTaskEvaluator constructs the evaluator.
func NewTaskEvaluator(tasks TaskStore, assignments AssignmentStore) *TaskEvaluator {
	return &TaskEvaluator{tasks: tasks, assignments: assignments}
}

// Evaluate decides single-task access for the caller. Staff-like callers
// reach a task when it is assigned to them or when a legacy case
// assignment links them to the parent case. Office managers are checked
// against the parent case's office, consistent with their case rule.
func (e *TaskEvaluator) Evaluate(ctx context.Context, caller *Caller, taskID string) (Decision, error) {
	switch caller.Info.Class {
	case ClassFullAccess:
		return DecisionAllow, nil

	case ClassOfficeManager:
		_, caseOffice, decision, err := e.load(ctx, taskID)
		if decision != DecisionAllow {
			return decision, err
		}
		if caller.HasOffice() && caseOffice == *caller.OfficeID {
			return DecisionAllow, nil
		}
		return DecisionDeny, nil

	case ClassStaffLike:
		task, _, decision, err := e.load(ctx, taskID)
		if decision != DecisionAllow {
			return decision, err
		}
		if task.AssignedTo != nil && *task.AssignedTo == caller.ID {
			return DecisionAllow, nil
		}
		granted, err := e.assignments.Exists(ctx, task.CaseID, caller.ID)
		if err != nil {
			return DecisionDeny, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if granted {
			return DecisionAllow, nil
		}
		return DecisionDeny, nil
	}

	return DecisionDeny, fmt.Errorf("%w: %q", ErrInvalidRole, caller.Role)
}

func (e *TaskEvaluator) load(ctx context.Context, id string) (*domain.Task, string, Decision, error) {
	task, caseOffice, err := e.tasks.GetWithCaseOffice(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", DecisionNotFound, nil
		}
		return nil, "", DecisionDeny, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return task, caseOffice, DecisionAllow, nil
}
