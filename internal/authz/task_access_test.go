package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/casework-service/internal/domain"
)

func testTask(id, caseOffice string, assignedTo *string) taskRecord {
	return taskRecord{
		task: &domain.Task{
			ID:         id,
			CaseID:     "case-1",
			AssignedTo: assignedTo,
			Title:      "prepare intake",
			Status:     domain.TaskStatusPending,
		},
		caseOffice: caseOffice,
	}
}

func TestTaskEvaluateFullAccess(t *testing.T) {
	eval := NewTaskEvaluator(&fakeTaskStore{err: errStoreDown}, &fakeAssignmentStore{err: errStoreDown})
	caller := newCaller(t, domain.StaffRoleAdmin, nil, nil)

	decision, err := eval.Evaluate(context.Background(), caller, "task-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestTaskEvaluateOfficeManager(t *testing.T) {
	eval := NewTaskEvaluator(&fakeTaskStore{tasks: map[string]taskRecord{
		"task-1": testTask("task-1", "office-1", nil),
	}}, &fakeAssignmentStore{})

	caller := newCaller(t, domain.StaffRoleOfficeManager, strPtr("office-1"), nil)
	decision, err := eval.Evaluate(context.Background(), caller, "task-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)

	caller = newCaller(t, domain.StaffRoleOfficeManager, strPtr("office-2"), nil)
	decision, err = eval.Evaluate(context.Background(), caller, "task-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionDeny, decision)
}

func TestTaskEvaluateAssignee(t *testing.T) {
	eval := NewTaskEvaluator(&fakeTaskStore{tasks: map[string]taskRecord{
		"task-1": testTask("task-1", "office-9", strPtr("caller-1")),
	}}, &fakeAssignmentStore{})
	caller := newCaller(t, domain.StaffRoleSocialWorker, strPtr("office-1"), strPtr("Social"))

	decision, err := eval.Evaluate(context.Background(), caller, "task-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestTaskEvaluateLegacyCaseAssignment(t *testing.T) {
	assignments := &fakeAssignmentStore{grants: map[string]bool{}}
	eval := NewTaskEvaluator(&fakeTaskStore{tasks: map[string]taskRecord{
		"task-1": testTask("task-1", "office-9", strPtr("other-staff")),
	}}, assignments)
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "task-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionDeny, decision)

	// A grant on the parent case opens its tasks too.
	assignments.grants["case-1|caller-1"] = true
	decision, err = eval.Evaluate(context.Background(), caller, "task-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestTaskEvaluateNotFound(t *testing.T) {
	eval := NewTaskEvaluator(&fakeTaskStore{tasks: map[string]taskRecord{}}, &fakeAssignmentStore{})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "task-404")
	require.NoError(t, err)
	assert.Equal(t, DecisionNotFound, decision)
}

func TestTaskEvaluateStoreFailureFailsClosed(t *testing.T) {
	eval := NewTaskEvaluator(&fakeTaskStore{err: errStoreDown}, &fakeAssignmentStore{})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "task-1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, DecisionDeny, decision)

	eval = NewTaskEvaluator(&fakeTaskStore{tasks: map[string]taskRecord{
		"task-1": testTask("task-1", "office-1", strPtr("other-staff")),
	}}, &fakeAssignmentStore{err: errStoreDown})

	decision, err = eval.Evaluate(context.Background(), caller, "task-1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, DecisionDeny, decision)
}
