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

// AppointmentService coordinates appointment scheduling.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	cases        repository.CaseRepository
	staff        repository.StaffRepository
	dispatcher   events.Dispatcher
}

// AppointmentDependencies bundles repositories.
type AppointmentDependencies struct {
	AppointmentRepo repository.AppointmentRepository
	CaseRepo        repository.CaseRepository
	StaffRepo       repository.StaffRepository
	Dispatcher      events.Dispatcher
}

// AppointmentCreateInput describes the scheduling payload.
type AppointmentCreateInput struct {
	CaseID      string
	StaffID     string
	Department  string
	ScheduledAt time.Time
	DurationMin int
	Notes       string
}

// AppointmentUpdateInput describes mutable appointment fields.
type AppointmentUpdateInput struct {
	StaffID     *string
	ScheduledAt *time.Time
	DurationMin *int
	Status      *domain.AppointmentStatus
	Notes       *string
}

// AppointmentListInput describes user-supplied list filters.
type AppointmentListInput struct {
	CaseID        *string
	StaffID       *string
	Statuses      []domain.AppointmentStatus
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Limit         int
	Offset        int
}

// NewAppointmentService constructs the service.
func NewAppointmentService(deps AppointmentDependencies) *AppointmentService {
	return &AppointmentService{
		appointments: deps.AppointmentRepo,
		cases:        deps.CaseRepo,
		staff:        deps.StaffRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// ScheduleAppointment books an appointment on a case.
func (s *AppointmentService) ScheduleAppointment(ctx context.Context, actor *authz.Caller, input AppointmentCreateInput) (*domain.Appointment, error) {
	kase, err := s.cases.GetByID(ctx, input.CaseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": input.CaseID})
		}
		return nil, apperrors.MapError(err)
	}

	assignee, err := s.staff.GetByID(ctx, input.StaffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": input.StaffID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Active {
		return nil, apperrors.NewConflict("assignee inactive", map[string]any{"staff_id": assignee.ID})
	}

	department := input.Department
	if department == "" {
		department = kase.Department
	}

	appt := &domain.Appointment{
		CaseID:      kase.ID,
		StaffID:     assignee.ID,
		Department:  department,
		ScheduledAt: input.ScheduledAt,
		DurationMin: input.DurationMin,
		Status:      domain.AppointmentStatusScheduled,
		Notes:       input.Notes,
	}
	if appt.DurationMin <= 0 {
		appt.DurationMin = 60
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventAppointmentScheduled,
		CaseID: kase.ID,
		Actor:  staffActor(actor.ID),
		Payload: events.AppointmentScheduledPayload{
			AppointmentID: appt.ID,
			StaffID:       appt.StaffID,
			Department:    appt.Department,
			ScheduledAt:   appt.ScheduledAt,
		},
	})
	return appt, nil
}

// GetAppointment loads a single appointment. Access was already granted.
func (s *AppointmentService) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment", map[string]any{"appointment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return appt, nil
}

// ListAppointments applies the request scope on top of the user filter.
func (s *AppointmentService) ListAppointments(ctx context.Context, scope *authz.Scope, input AppointmentListInput) ([]domain.Appointment, error) {
	filter := repository.AppointmentFilter{
		CaseID:        input.CaseID,
		StaffID:       input.StaffID,
		Statuses:      input.Statuses,
		ScheduledFrom: input.ScheduledFrom,
		ScheduledTo:   input.ScheduledTo,
		Limit:         input.Limit,
		Offset:        input.Offset,
	}
	if scope != nil {
		filter.OfficeID = scope.OfficeID
		filter.Department = scope.Department
	}
	appts, err := s.appointments.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appts, nil
}

// ListClientAppointments returns appointments on the client's own cases.
func (s *AppointmentService) ListClientAppointments(ctx context.Context, clientID string, limit, offset int) ([]domain.Appointment, error) {
	cases, err := s.cases.ListByClient(ctx, clientID, 100, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var result []domain.Appointment
	for i := range cases {
		caseID := cases[i].ID
		appts, err := s.appointments.ListWithFilter(ctx, repository.AppointmentFilter{
			CaseID: &caseID,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		result = append(result, appts...)
	}
	return result, nil
}

// UpdateAppointment applies a partial update.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id string, input AppointmentUpdateInput) (*domain.Appointment, error) {
	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.StaffID != nil {
		assignee, err := s.staff.GetByID(ctx, *input.StaffID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": *input.StaffID})
			}
			return nil, apperrors.MapError(err)
		}
		if !assignee.Active {
			return nil, apperrors.NewConflict("assignee inactive", map[string]any{"staff_id": assignee.ID})
		}
		appt.StaffID = assignee.ID
	}
	if input.ScheduledAt != nil {
		appt.ScheduledAt = *input.ScheduledAt
	}
	if input.DurationMin != nil && *input.DurationMin > 0 {
		appt.DurationMin = *input.DurationMin
	}
	if input.Status != nil {
		appt.Status = *input.Status
	}
	if input.Notes != nil {
		appt.Notes = *input.Notes
	}

	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, apperrors.MapError(err)
	}
	return appt, nil
}

func (s *AppointmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
