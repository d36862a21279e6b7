package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/domain"
)

// CaseStore loads case snapshots for evaluation.
type CaseStore interface {
	GetByID(ctx context.Context, id string) (*domain.Case, error)
}

// TaskLinkStore answers whether the caller holds a live task on a case.
type TaskLinkStore interface {
	ExistsActiveForCase(ctx context.Context, staffID, caseID string) (bool, error)
}

// AssignmentStore answers whether a legacy case assignment grant exists.
type AssignmentStore interface {
	Exists(ctx context.Context, caseID, staffID string) (bool, error)
}

// CaseEvaluator decides access to individual cases.
type CaseEvaluator struct {
	cases       CaseStore
	tasks       TaskLinkStore
	assignments AssignmentStore
}

// NewCaseEvaluator constructs the evaluator.
func NewCaseEvaluator(cases CaseStore, tasks TaskLinkStore, assignments AssignmentStore) *CaseEvaluator {
	return &CaseEvaluator{cases: cases, tasks: tasks, assignments: assignments}
}

// casePredicate is one named grant path for staff-like access to a case.
// The chain is evaluated in order with first match winning, so each path
// stays independently testable and the full rule stays auditable.
type casePredicate struct {
	name  string
	grant func(ctx context.Context, e *CaseEvaluator, caller *Caller, kase *domain.Case) (bool, error)
}

var caseGrantChain = []casePredicate{
	{name: "primary_staff", grant: grantPrimaryStaff},
	{name: "office_and_department", grant: grantOfficeAndDepartment},
	{name: "office_only", grant: grantOfficeOnly},
	{name: "department_only", grant: grantDepartmentOnly},
	{name: "task_link", grant: grantTaskLink},
	{name: "case_assignment", grant: grantCaseAssignment},
}

// Evaluate decides single-case access for the caller.
func (e *CaseEvaluator) Evaluate(ctx context.Context, caller *Caller, caseID string) (Decision, error) {
	switch caller.Info.Class {
	case ClassFullAccess:
		return DecisionAllow, nil

	case ClassOfficeManager:
		kase, decision, err := e.load(ctx, caseID)
		if decision != DecisionAllow {
			return decision, err
		}
		if caller.HasOffice() && kase.OfficeID == *caller.OfficeID {
			return DecisionAllow, nil
		}
		return DecisionDeny, nil

	case ClassStaffLike:
		kase, decision, err := e.load(ctx, caseID)
		if decision != DecisionAllow {
			return decision, err
		}
		for _, path := range caseGrantChain {
			ok, err := path.grant(ctx, e, caller, kase)
			if err != nil {
				return DecisionDeny, fmt.Errorf("case path %s: %w", path.name, err)
			}
			if ok {
				return DecisionAllow, nil
			}
		}
		return DecisionDeny, nil
	}

	return DecisionDeny, fmt.Errorf("%w: %q", ErrInvalidRole, caller.Role)
}

func (e *CaseEvaluator) load(ctx context.Context, caseID string) (*domain.Case, Decision, error) {
	kase, err := e.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, DecisionNotFound, nil
		}
		return nil, DecisionDeny, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return kase, DecisionAllow, nil
}

func grantPrimaryStaff(_ context.Context, _ *CaseEvaluator, caller *Caller, kase *domain.Case) (bool, error) {
	return kase.PrimaryStaffID != nil && *kase.PrimaryStaffID == caller.ID, nil
}

func grantOfficeAndDepartment(_ context.Context, _ *CaseEvaluator, caller *Caller, kase *domain.Case) (bool, error) {
	if !caller.HasOffice() || !caller.HasDepartment() {
		return false, nil
	}
	return *caller.OfficeID == kase.OfficeID && *caller.Department == kase.Department, nil
}

func grantOfficeOnly(_ context.Context, _ *CaseEvaluator, caller *Caller, kase *domain.Case) (bool, error) {
	if !caller.HasOffice() || caller.HasDepartment() {
		return false, nil
	}
	return *caller.OfficeID == kase.OfficeID, nil
}

func grantDepartmentOnly(_ context.Context, _ *CaseEvaluator, caller *Caller, kase *domain.Case) (bool, error) {
	if caller.HasOffice() || !caller.HasDepartment() {
		return false, nil
	}
	return *caller.Department == kase.Department, nil
}

func grantTaskLink(ctx context.Context, e *CaseEvaluator, caller *Caller, kase *domain.Case) (bool, error) {
	ok, err := e.tasks.ExistsActiveForCase(ctx, caller.ID, kase.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ok, nil
}

func grantCaseAssignment(ctx context.Context, e *CaseEvaluator, caller *Caller, kase *domain.Case) (bool, error) {
	ok, err := e.assignments.Exists(ctx, kase.ID, caller.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ok, nil
}
