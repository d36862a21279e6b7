package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/authz"
	"github.com/spec-kit/casework-service/internal/domain"
	"github.com/spec-kit/casework-service/internal/events"
	"github.com/spec-kit/casework-service/internal/repository"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

// AssignmentService manages the explicit per-case staff grants. These sit
// behind the primary-staff and office rules as a last-chance access path,
// so granting one widens what the grantee can see.
type AssignmentService struct {
	assignments repository.CaseAssignmentRepository
	cases       repository.CaseRepository
	staff       repository.StaffRepository
	dispatcher  events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	AssignmentRepo repository.CaseAssignmentRepository
	CaseRepo       repository.CaseRepository
	StaffRepo      repository.StaffRepository
	Dispatcher     events.Dispatcher
}

// NewAssignmentService constructs the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		assignments: deps.AssignmentRepo,
		cases:       deps.CaseRepo,
		staff:       deps.StaffRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// Grant adds an explicit case grant for a staff member. Granting twice is
// a no-op apart from refreshing who granted it.
func (s *AssignmentService) Grant(ctx context.Context, actor *authz.Caller, caseID, staffID string) (*domain.CaseAssignment, error) {
	if _, err := s.cases.GetByID(ctx, caseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
		}
		return nil, apperrors.MapError(err)
	}

	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if !member.Active {
		return nil, apperrors.NewConflict("staff inactive", map[string]any{"staff_id": staffID})
	}

	assignment := &domain.CaseAssignment{
		CaseID:    caseID,
		StaffID:   staffID,
		GrantedBy: &actor.ID,
	}
	if err := s.assignments.Grant(ctx, assignment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventCaseGrantChanged,
		CaseID:  caseID,
		Actor:   staffActor(actor.ID),
		Payload: events.CaseGrantChangedPayload{StaffID: staffID, Granted: true},
	})
	return assignment, nil
}

// Revoke removes an explicit case grant.
func (s *AssignmentService) Revoke(ctx context.Context, actor *authz.Caller, caseID, staffID string) error {
	if err := s.assignments.Revoke(ctx, caseID, staffID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("case assignment", map[string]any{
				"case_id":  caseID,
				"staff_id": staffID,
			})
		}
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventCaseGrantChanged,
		CaseID:  caseID,
		Actor:   staffActor(actor.ID),
		Payload: events.CaseGrantChangedPayload{StaffID: staffID, Granted: false},
	})
	return nil
}

// ListByCase returns the grants on a case.
func (s *AssignmentService) ListByCase(ctx context.Context, caseID string) ([]domain.CaseAssignment, error) {
	assignments, err := s.assignments.ListByCase(ctx, caseID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignments, nil
}

func (s *AssignmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
