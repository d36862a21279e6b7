package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/casework-service/internal/domain"
)

func newCaseEvaluator(cases map[string]*domain.Case) (*CaseEvaluator, *fakeTaskLinkStore, *fakeAssignmentStore) {
	tasks := &fakeTaskLinkStore{links: map[string]bool{}}
	assignments := &fakeAssignmentStore{grants: map[string]bool{}}
	return NewCaseEvaluator(&fakeCaseStore{cases: cases}, tasks, assignments), tasks, assignments
}

func testCase(id, officeID, department string) *domain.Case {
	return &domain.Case{
		ID:         id,
		OfficeID:   officeID,
		Department: department,
		ClientID:   "client-1",
		Status:     domain.CaseStatusOpen,
	}
}

func TestCaseEvaluateFullAccess(t *testing.T) {
	// Full access short-circuits before any store load; a broken store
	// must not matter.
	eval := NewCaseEvaluator(&fakeCaseStore{err: errStoreDown}, &fakeTaskLinkStore{err: errStoreDown}, &fakeAssignmentStore{err: errStoreDown})
	caller := newCaller(t, domain.StaffRoleAdmin, nil, nil)

	decision, err := eval.Evaluate(context.Background(), caller, "case-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestCaseEvaluateOfficeManager(t *testing.T) {
	eval, _, _ := newCaseEvaluator(map[string]*domain.Case{
		"case-1": testCase("case-1", "office-1", "Legal"),
	})

	tests := []struct {
		name     string
		officeID *string
		caseID   string
		want     Decision
	}{
		{"same office", strPtr("office-1"), "case-1", DecisionAllow},
		{"different office", strPtr("office-2"), "case-1", DecisionDeny},
		{"no office", nil, "case-1", DecisionDeny},
		{"missing case", strPtr("office-1"), "case-404", DecisionNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caller := newCaller(t, domain.StaffRoleOfficeManager, tc.officeID, nil)
			decision, err := eval.Evaluate(context.Background(), caller, tc.caseID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, decision)
		})
	}
}

func TestCaseEvaluatePrimaryStaffWins(t *testing.T) {
	kase := testCase("case-1", "office-2", "Psicologia")
	kase.PrimaryStaffID = strPtr("caller-1")
	eval, _, _ := newCaseEvaluator(map[string]*domain.Case{"case-1": kase})

	// Primary staff gets in even from another office and department.
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))
	decision, err := eval.Evaluate(context.Background(), caller, "case-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestCaseEvaluateOfficeAndDepartment(t *testing.T) {
	eval, _, _ := newCaseEvaluator(map[string]*domain.Case{
		"case-1": testCase("case-1", "office-1", "Legal"),
	})

	tests := []struct {
		name       string
		officeID   *string
		department *string
		want       Decision
	}{
		{"office and department match", strPtr("office-1"), strPtr("Legal"), DecisionAllow},
		{"department mismatch", strPtr("office-1"), strPtr("Psicologia"), DecisionDeny},
		{"office mismatch", strPtr("office-2"), strPtr("Legal"), DecisionDeny},
		{"office only caller, office match", strPtr("office-1"), nil, DecisionAllow},
		{"office only caller, office mismatch", strPtr("office-2"), nil, DecisionDeny},
		{"department only caller, department match", nil, strPtr("Legal"), DecisionAllow},
		{"department only caller, department mismatch", nil, strPtr("Psicologia"), DecisionDeny},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			caller := newCaller(t, domain.StaffRoleSocialWorker, tc.officeID, tc.department)
			decision, err := eval.Evaluate(context.Background(), caller, "case-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, decision)
		})
	}
}

func TestCaseEvaluateTaskLink(t *testing.T) {
	eval, tasks, _ := newCaseEvaluator(map[string]*domain.Case{
		"case-1": testCase("case-1", "office-2", "Psicologia"),
	})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "case-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionDeny, decision)

	// A live task on the case opens it up regardless of office.
	tasks.links["caller-1|case-1"] = true
	decision, err = eval.Evaluate(context.Background(), caller, "case-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestCaseEvaluateAssignmentGrantRoundTrip(t *testing.T) {
	eval, _, assignments := newCaseEvaluator(map[string]*domain.Case{
		"case-1": testCase("case-1", "office-2", "Psicologia"),
	})
	caller := newCaller(t, domain.StaffRolePsychologist, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "case-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionDeny, decision)

	assignments.grants["case-1|caller-1"] = true
	decision, err = eval.Evaluate(context.Background(), caller, "case-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)

	// Revoking the grant closes the case again.
	delete(assignments.grants, "case-1|caller-1")
	decision, err = eval.Evaluate(context.Background(), caller, "case-1")
	require.NoError(t, err)
	assert.Equal(t, DecisionDeny, decision)
}

func TestCaseEvaluateNotFoundForStaffLike(t *testing.T) {
	eval, _, _ := newCaseEvaluator(map[string]*domain.Case{})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "case-404")
	require.NoError(t, err)
	assert.Equal(t, DecisionNotFound, decision)
}

func TestCaseEvaluateStoreFailureFailsClosed(t *testing.T) {
	eval := NewCaseEvaluator(&fakeCaseStore{err: errStoreDown}, &fakeTaskLinkStore{}, &fakeAssignmentStore{})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "case-1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, DecisionDeny, decision)
}

func TestCaseEvaluateTaskLinkStoreFailureFailsClosed(t *testing.T) {
	eval := NewCaseEvaluator(
		&fakeCaseStore{cases: map[string]*domain.Case{"case-1": testCase("case-1", "office-2", "Psicologia")}},
		&fakeTaskLinkStore{err: errStoreDown},
		&fakeAssignmentStore{},
	)
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	decision, err := eval.Evaluate(context.Background(), caller, "case-1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, DecisionDeny, decision)
}

func TestCaseEvaluateIsIdempotent(t *testing.T) {
	eval, _, _ := newCaseEvaluator(map[string]*domain.Case{
		"case-1": testCase("case-1", "office-1", "Legal"),
	})
	caller := newCaller(t, domain.StaffRoleLawyer, strPtr("office-1"), strPtr("Legal"))

	for i := 0; i < 3; i++ {
		decision, err := eval.Evaluate(context.Background(), caller, "case-1")
		require.NoError(t, err)
		assert.Equal(t, DecisionAllow, decision)
	}
}
