package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/casework-service/internal/api/dto"
	"github.com/spec-kit/casework-service/internal/auth"
	"github.com/spec-kit/casework-service/internal/authz"
	"github.com/spec-kit/casework-service/internal/domain"
	"github.com/spec-kit/casework-service/internal/service"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

// StaffHandler exposes staff auth plus member/office/department management.
type StaffHandler struct {
	auth  *service.AuthService
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{auth: authService, staff: staffService}
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	member, token, exp, err := h.auth.LoginStaff(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"staff": staffResponse(member),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *StaffHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	// Unknown emails get the same response as known ones.
	token, err := h.auth.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"status": "sent"}})
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"status":     "sent",
			"token":      token.Token,
			"expires_at": token.ExpiresAt,
		},
	})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *StaffHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and new_password required", nil)
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "ok"}})
}

// ChangePassword handles POST /auth/password/change.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}

	subject := service.AuthSubject{Type: claims.Subject, ID: claims.SubjectID}
	if err := h.auth.ChangePassword(c.UserContext(), subject, req.CurrentPassword, req.NewPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "ok"}})
}

// CreateStaff POST /staff/members.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("name, email, password, role required", nil)
	}

	member, err := h.staff.CreateStaff(c.UserContext(), service.StaffCreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		OfficeID:   req.OfficeID,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": staffResponse(member)})
}

// ListStaff GET /staff/members.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	scope, _ := authz.ScopeFromContext(c)
	input := parseStaffListQuery(c)
	members, err := h.staff.ListStaff(c.UserContext(), scope, input)
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		items = append(items, staffResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetStaff GET /staff/members/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	member, err := h.staff.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

// UpdateStaff PATCH /staff/members/:id.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	var req dto.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	member, err := h.staff.UpdateStaff(c.UserContext(), c.Params("id"), service.StaffUpdateInput{
		Name:       req.Name,
		Role:       req.Role,
		OfficeID:   req.OfficeID,
		Department: req.Department,
		Active:     req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

// CreateOffice POST /staff/offices.
func (h *StaffHandler) CreateOffice(c *fiber.Ctx) error {
	var req dto.CreateOfficeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	office, err := h.staff.CreateOffice(c.UserContext(), req.Name, req.City)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": officeResponse(office)})
}

// ListOffices GET /staff/offices.
func (h *StaffHandler) ListOffices(c *fiber.Ctx) error {
	offices, err := h.staff.ListOffices(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.OfficeResponse, 0, len(offices))
	for i := range offices {
		items = append(items, officeResponse(&offices[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateDepartment POST /staff/departments.
func (h *StaffHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	dept, err := h.staff.CreateDepartment(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": departmentResponse(dept)})
}

// ListDepartments GET /staff/departments.
func (h *StaffHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.staff.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, departmentResponse(&departments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseStaffListQuery(c *fiber.Ctx) service.StaffListInput {
	input := service.StaffListInput{}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(roleStr)
		input.Role = &role
	}
	if officeID := c.Query("office_id"); officeID != "" {
		input.OfficeID = &officeID
	}
	if deptStr := c.Query("department"); deptStr != "" {
		input.Department = &deptStr
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active := activeStr == "true"
		input.Active = &active
	}

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input
}

func staffResponse(member *domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:         member.ID,
		Name:       member.Name,
		Email:      member.Email,
		Role:       member.Role,
		OfficeID:   member.OfficeID,
		Department: member.Department,
		Active:     member.Active,
		CreatedAt:  member.CreatedAt,
		UpdatedAt:  member.UpdatedAt,
	}
}

func officeResponse(office *domain.Office) dto.OfficeResponse {
	return dto.OfficeResponse{
		ID:        office.ID,
		Name:      office.Name,
		City:      office.City,
		Active:    office.IsActive,
		CreatedAt: office.CreatedAt,
	}
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		Active:      dept.IsActive,
		CreatedAt:   dept.CreatedAt,
	}
}
