package service

import (
	"context"
	"errors"
	"fmt"
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

// CaseService coordinates case workflows. Access decisions happen in the
// enforcement middleware before these methods run; list methods apply the
// already-derived scope to their queries.
type CaseService struct {
	cases       repository.CaseRepository
	offices     repository.OfficeRepository
	departments repository.DepartmentRepository
	staff       repository.StaffRepository
	history     repository.CaseHistoryRepository
	dispatcher  events.Dispatcher
}

// CaseDependencies bundles repositories for the case service.
type CaseDependencies struct {
	CaseRepo       repository.CaseRepository
	OfficeRepo     repository.OfficeRepository
	DepartmentRepo repository.DepartmentRepository
	StaffRepo      repository.StaffRepository
	HistoryRepo    repository.CaseHistoryRepository
	Dispatcher     events.Dispatcher
}

// CaseCreateInput describes the case creation payload.
type CaseCreateInput struct {
	OfficeID       string
	Department     string
	ClientID       string
	PrimaryStaffID *string
	Title          string
	Description    string
}

// CaseUpdateInput describes mutable case fields. Nil means unchanged.
type CaseUpdateInput struct {
	Department     *string
	PrimaryStaffID *string
	Title          *string
	Description    *string
	Status         *domain.CaseStatus
}

// CaseListInput describes user-supplied list filters; the request scope is
// merged on top and always wins.
type CaseListInput struct {
	Statuses    []domain.CaseStatus
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewCaseService constructs the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	return &CaseService{
		cases:       deps.CaseRepo,
		offices:     deps.OfficeRepo,
		departments: deps.DepartmentRepo,
		staff:       deps.StaffRepo,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateCase opens a case in the given office and department.
func (s *CaseService) CreateCase(ctx context.Context, actor *authz.Caller, input CaseCreateInput) (*domain.Case, error) {
	office, err := s.offices.GetByID(ctx, input.OfficeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("office", map[string]any{"office_id": input.OfficeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !office.IsActive {
		return nil, apperrors.NewConflict("office inactive", map[string]any{"office_id": office.ID})
	}

	dept, err := s.departments.GetByName(ctx, input.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
		}
		return nil, apperrors.MapError(err)
	}
	if !dept.IsActive {
		return nil, apperrors.NewConflict("department inactive", map[string]any{"department": dept.Name})
	}

	// Non-full-access staff can only open cases in their own office.
	if actor.Info.Class != authz.ClassFullAccess {
		if actor.OfficeID == nil || *actor.OfficeID != input.OfficeID {
			return nil, apperrors.NewForbidden("cannot create case outside own office")
		}
	}

	if input.PrimaryStaffID != nil {
		if err := s.validatePrimaryStaff(ctx, *input.PrimaryStaffID); err != nil {
			return nil, err
		}
	}

	kase := &domain.Case{
		ExternalKey:    generateCaseKey(),
		OfficeID:       input.OfficeID,
		Department:     dept.Name,
		ClientID:       input.ClientID,
		PrimaryStaffID: input.PrimaryStaffID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Status:         domain.CaseStatusOpen,
	}
	if err := s.cases.Create(ctx, kase); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventCaseCreated,
		CaseID: kase.ID,
		Actor:  staffActor(actor.ID),
		Payload: events.CaseCreatedPayload{
			OfficeID:   kase.OfficeID,
			Department: kase.Department,
			Status:     kase.Status,
			Title:      kase.Title,
		},
	})
	return kase, nil
}

// GetCase loads a single case. The evaluator has already granted access.
func (s *CaseService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	kase, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
		}
		return nil, apperrors.MapError(err)
	}
	return kase, nil
}

// ListCases applies the request scope on top of the user filter.
func (s *CaseService) ListCases(ctx context.Context, scope *authz.Scope, input CaseListInput) ([]domain.Case, error) {
	filter := repository.CaseFilter{
		Statuses:    input.Statuses,
		SearchTerm:  input.SearchTerm,
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
		Limit:       input.Limit,
		Offset:      input.Offset,
	}
	if scope != nil {
		filter.OfficeID = scope.OfficeID
		filter.Department = scope.Department
	}
	cases, err := s.cases.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cases, nil
}

// UpdateCase applies a partial update and records the audit trail.
func (s *CaseService) UpdateCase(ctx context.Context, actor *authz.Caller, caseID string, input CaseUpdateInput) (*domain.Case, error) {
	kase, err := s.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	oldStatus := kase.Status
	oldPrimary := kase.PrimaryStaffID
	oldDepartment := kase.Department

	if input.Department != nil && *input.Department != kase.Department {
		dept, err := s.departments.GetByName(ctx, *input.Department)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": *input.Department})
			}
			return nil, apperrors.MapError(err)
		}
		kase.Department = dept.Name
	}
	if input.PrimaryStaffID != nil {
		if *input.PrimaryStaffID != "" {
			if err := s.validatePrimaryStaff(ctx, *input.PrimaryStaffID); err != nil {
				return nil, err
			}
			kase.PrimaryStaffID = input.PrimaryStaffID
		} else {
			kase.PrimaryStaffID = nil
		}
	}
	if input.Title != nil {
		kase.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		kase.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil && *input.Status != kase.Status {
		if !validCaseTransition(kase.Status, *input.Status) {
			return nil, apperrors.NewConflict("invalid status transition", map[string]any{
				"from": kase.Status,
				"to":   *input.Status,
			})
		}
		kase.Status = *input.Status
		if kase.Status == domain.CaseStatusClosed || kase.Status == domain.CaseStatusArchived {
			now := time.Now()
			kase.ClosedAt = &now
		} else {
			kase.ClosedAt = nil
		}
	}

	if err := s.cases.Update(ctx, kase); err != nil {
		return nil, apperrors.MapError(err)
	}

	if oldStatus != kase.Status {
		s.recordChange(ctx, actor.ID, kase.ID, domain.ChangeTypeStatus,
			map[string]any{"status": oldStatus}, map[string]any{"status": kase.Status})
		s.publishEvent(ctx, events.Event{
			Type:   events.EventCaseStatusChanged,
			CaseID: kase.ID,
			Actor:  staffActor(actor.ID),
			Payload: events.CaseStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: kase.Status,
			},
		})
	}
	if !equalPtr(oldPrimary, kase.PrimaryStaffID) {
		s.recordChange(ctx, actor.ID, kase.ID, domain.ChangeTypePrimaryStaff,
			map[string]any{"primary_staff_id": oldPrimary}, map[string]any{"primary_staff_id": kase.PrimaryStaffID})
		s.publishEvent(ctx, events.Event{
			Type:    events.EventCaseAssigned,
			CaseID:  kase.ID,
			Actor:   staffActor(actor.ID),
			Payload: events.CaseAssignedPayload{PrimaryStaffID: kase.PrimaryStaffID},
		})
	}
	if oldDepartment != kase.Department {
		s.recordChange(ctx, actor.ID, kase.ID, domain.ChangeTypeDepartment,
			map[string]any{"department": oldDepartment}, map[string]any{"department": kase.Department})
	}

	return kase, nil
}

// CaseHistory lists the audit trail for a case.
func (s *CaseService) CaseHistory(ctx context.Context, caseID string, limit, offset int) ([]domain.CaseHistory, error) {
	entries, err := s.history.ListByCase(ctx, caseID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListClientCases returns a client's own cases for the mobile app.
func (s *CaseService) ListClientCases(ctx context.Context, clientID string, limit, offset int) ([]domain.Case, error) {
	cases, err := s.cases.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cases, nil
}

func (s *CaseService) validatePrimaryStaff(ctx context.Context, staffID string) error {
	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return apperrors.MapError(err)
	}
	if !member.Active {
		return apperrors.NewConflict("staff inactive", map[string]any{"staff_id": staffID})
	}
	return nil
}

func validCaseTransition(from, to domain.CaseStatus) bool {
	switch from {
	case domain.CaseStatusOpen:
		return to == domain.CaseStatusOnHold || to == domain.CaseStatusClosed
	case domain.CaseStatusOnHold:
		return to == domain.CaseStatusOpen || to == domain.CaseStatusClosed
	case domain.CaseStatusClosed:
		return to == domain.CaseStatusOpen || to == domain.CaseStatusArchived
	case domain.CaseStatusArchived:
		return false
	}
	return false
}

func (s *CaseService) recordChange(ctx context.Context, actorID, caseID string, changeType domain.CaseChangeType, oldVal, newVal map[string]any) {
	_ = s.history.Create(ctx, &domain.CaseHistory{
		CaseID:      caseID,
		ChangedByID: &actorID,
		ChangeType:  changeType,
		OldValue:    oldVal,
		NewValue:    newVal,
	})
}

func (s *CaseService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func staffActor(staffID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeStaff, StaffID: &staffID}
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func generateCaseKey() string {
	return fmt.Sprintf("CASE-%s", strings.ToUpper(uuid.NewString()[:8]))
}
