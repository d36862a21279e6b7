package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/casework-service/internal/api/dto"
	"github.com/spec-kit/casework-service/internal/authz"
	"github.com/spec-kit/casework-service/internal/domain"
	"github.com/spec-kit/casework-service/internal/service"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

// AppointmentsHandler manages staff appointment endpoints.
type AppointmentsHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(appointmentService *service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{appointments: appointmentService}
}

// CreateAppointment POST /staff/appointments.
func (h *AppointmentsHandler) CreateAppointment(c *fiber.Ctx) error {
	caller, ok := authz.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CaseID == "" || req.StaffID == "" || req.ScheduledAt.IsZero() {
		return apperrors.NewValidationError("case_id, staff_id, scheduled_at required", nil)
	}

	appt, err := h.appointments.ScheduleAppointment(c.UserContext(), caller, service.AppointmentCreateInput{
		CaseID:      req.CaseID,
		StaffID:     req.StaffID,
		Department:  req.Department,
		ScheduledAt: req.ScheduledAt,
		DurationMin: req.DurationMin,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": appointmentResponse(appt)})
}

// ListAppointments GET /staff/appointments.
func (h *AppointmentsHandler) ListAppointments(c *fiber.Ctx) error {
	scope, _ := authz.ScopeFromContext(c)
	input := parseAppointmentListQuery(c)
	appts, err := h.appointments.ListAppointments(c.UserContext(), scope, input)
	if err != nil {
		return err
	}
	items := make([]dto.AppointmentResponse, 0, len(appts))
	for i := range appts {
		items = append(items, appointmentResponse(&appts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetAppointment GET /staff/appointments/:id.
func (h *AppointmentsHandler) GetAppointment(c *fiber.Ctx) error {
	appt, err := h.appointments.GetAppointment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appointmentResponse(appt)})
}

// UpdateAppointment PATCH /staff/appointments/:id.
func (h *AppointmentsHandler) UpdateAppointment(c *fiber.Ctx) error {
	var req dto.UpdateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	appt, err := h.appointments.UpdateAppointment(c.UserContext(), c.Params("id"), service.AppointmentUpdateInput{
		StaffID:     req.StaffID,
		ScheduledAt: req.ScheduledAt,
		DurationMin: req.DurationMin,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appointmentResponse(appt)})
}

func parseAppointmentListQuery(c *fiber.Ctx) service.AppointmentListInput {
	input := service.AppointmentListInput{}
	if caseID := c.Query("case_id"); caseID != "" {
		input.CaseID = &caseID
	}
	if staffID := c.Query("staff_id"); staffID != "" {
		input.StaffID = &staffID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			input.Statuses = append(input.Statuses, domain.AppointmentStatus(strings.TrimSpace(part)))
		}
	}
	input.ScheduledFrom = parseTime(c.Query("scheduled_from"))
	input.ScheduledTo = parseTime(c.Query("scheduled_to"))

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input
}

func appointmentResponse(appt *domain.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:          appt.ID,
		CaseID:      appt.CaseID,
		StaffID:     appt.StaffID,
		Department:  appt.Department,
		ScheduledAt: appt.ScheduledAt,
		DurationMin: appt.DurationMin,
		Status:      appt.Status,
		Notes:       appt.Notes,
		CreatedAt:   appt.CreatedAt,
		UpdatedAt:   appt.UpdatedAt,
	}
}
