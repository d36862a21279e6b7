package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/casework-service/internal/api/dto"
	"github.com/spec-kit/casework-service/internal/auth"
	"github.com/spec-kit/casework-service/internal/domain"
	"github.com/spec-kit/casework-service/internal/service"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

// ClientsHandler exposes client auth and client self-service endpoints.
// Clients only ever see their own cases; the staff authorization engine
// never runs for these routes.
type ClientsHandler struct {
	auth         *service.AuthService
	cases        *service.CaseService
	appointments *service.AppointmentService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(authService *service.AuthService, caseService *service.CaseService, appointmentService *service.AppointmentService) *ClientsHandler {
	return &ClientsHandler{auth: authService, cases: caseService, appointments: appointmentService}
}

// Register handles POST /auth/clients/register.
func (h *ClientsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	client, token, exp, err := h.auth.RegisterClient(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"client": clientResponse(client),
			"auth":   dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/clients/login.
func (h *ClientsHandler) Login(c *fiber.Ctx) error {
	var req dto.ClientLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	client, token, exp, err := h.auth.LoginClient(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"client": clientResponse(client),
			"auth":   dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Me handles GET /clients/me.
func (h *ClientsHandler) Me(c *fiber.Ctx) error {
	client, ok := auth.ClientFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("client required")
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// ListMyCases handles GET /clients/cases.
func (h *ClientsHandler) ListMyCases(c *fiber.Ctx) error {
	client, ok := auth.ClientFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("client required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	cases, err := h.cases.ListClientCases(c.UserContext(), client.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CaseSummary, 0, len(cases))
	for i := range cases {
		items = append(items, caseSummary(&cases[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListMyAppointments handles GET /clients/appointments.
func (h *ClientsHandler) ListMyAppointments(c *fiber.Ctx) error {
	client, ok := auth.ClientFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("client required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	appts, err := h.appointments.ListClientAppointments(c.UserContext(), client.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.AppointmentResponse, 0, len(appts))
	for i := range appts {
		items = append(items, appointmentResponse(&appts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func clientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Status:    client.Status,
		CreatedAt: client.CreatedAt,
	}
}
