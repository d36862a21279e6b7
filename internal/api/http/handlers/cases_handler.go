package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/casework-service/internal/api/dto"
	"github.com/spec-kit/casework-service/internal/authz"
	"github.com/spec-kit/casework-service/internal/domain"
	"github.com/spec-kit/casework-service/internal/service"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

// CasesHandler manages staff case endpoints. Access control runs in the
// enforcement middleware before any of these methods; handlers only read
// the resolved caller and scope from request locals.
type CasesHandler struct {
	cases       *service.CaseService
	assignments *service.AssignmentService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService, assignmentService *service.AssignmentService) *CasesHandler {
	return &CasesHandler{cases: caseService, assignments: assignmentService}
}

// CreateCase POST /staff/cases.
func (h *CasesHandler) CreateCase(c *fiber.Ctx) error {
	caller, ok := authz.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OfficeID == "" || req.Department == "" || req.ClientID == "" || req.Title == "" {
		return apperrors.NewValidationError("office_id, department, client_id, title required", nil)
	}

	kase, err := h.cases.CreateCase(c.UserContext(), caller, service.CaseCreateInput{
		OfficeID:       req.OfficeID,
		Department:     req.Department,
		ClientID:       req.ClientID,
		PrimaryStaffID: req.PrimaryStaffID,
		Title:          req.Title,
		Description:    req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": caseSummary(kase)})
}

// ListCases GET /staff/cases.
func (h *CasesHandler) ListCases(c *fiber.Ctx) error {
	scope, _ := authz.ScopeFromContext(c)
	input := parseCaseListQuery(c)
	cases, err := h.cases.ListCases(c.UserContext(), scope, input)
	if err != nil {
		return err
	}
	items := make([]dto.CaseSummary, 0, len(cases))
	for i := range cases {
		items = append(items, caseSummary(&cases[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCase GET /staff/cases/:id.
func (h *CasesHandler) GetCase(c *fiber.Ctx) error {
	kase, err := h.cases.GetCase(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(kase)})
}

// UpdateCase PATCH /staff/cases/:id.
func (h *CasesHandler) UpdateCase(c *fiber.Ctx) error {
	caller, ok := authz.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	kase, err := h.cases.UpdateCase(c.UserContext(), caller, c.Params("id"), service.CaseUpdateInput{
		Department:     req.Department,
		PrimaryStaffID: req.PrimaryStaffID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(kase)})
}

// CaseHistory GET /staff/cases/:id/history.
func (h *CasesHandler) CaseHistory(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	entries, err := h.cases.CaseHistory(c.UserContext(), c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CaseHistoryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, caseHistoryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GrantAssignment POST /staff/cases/:id/assignments.
func (h *CasesHandler) GrantAssignment(c *fiber.Ctx) error {
	caller, ok := authz.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.GrantAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" {
		return apperrors.NewValidationError("staff_id required", nil)
	}

	assignment, err := h.assignments.Grant(c.UserContext(), caller, c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": assignmentResponse(assignment)})
}

// RevokeAssignment DELETE /staff/cases/:id/assignments/:staffId.
func (h *CasesHandler) RevokeAssignment(c *fiber.Ctx) error {
	caller, ok := authz.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	if err := h.assignments.Revoke(c.UserContext(), caller, c.Params("id"), c.Params("staffId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAssignments GET /staff/cases/:id/assignments.
func (h *CasesHandler) ListAssignments(c *fiber.Ctx) error {
	assignments, err := h.assignments.ListByCase(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CaseAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		items = append(items, assignmentResponse(&assignments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseCaseListQuery(c *fiber.Ctx) service.CaseListInput {
	input := service.CaseListInput{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			input.Statuses = append(input.Statuses, domain.CaseStatus(strings.TrimSpace(part)))
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		input.SearchTerm = &search
	}
	input.CreatedFrom = parseTime(c.Query("created_from"))
	input.CreatedTo = parseTime(c.Query("created_to"))

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func caseSummary(kase *domain.Case) dto.CaseSummary {
	return dto.CaseSummary{
		ID:             kase.ID,
		ExternalKey:    kase.ExternalKey,
		OfficeID:       kase.OfficeID,
		Department:     kase.Department,
		ClientID:       kase.ClientID,
		PrimaryStaffID: kase.PrimaryStaffID,
		Title:          kase.Title,
		Status:         kase.Status,
		CreatedAt:      kase.CreatedAt,
		UpdatedAt:      kase.UpdatedAt,
	}
}

func caseDetail(kase *domain.Case) dto.CaseDetailResponse {
	return dto.CaseDetailResponse{
		ID:             kase.ID,
		ExternalKey:    kase.ExternalKey,
		OfficeID:       kase.OfficeID,
		Department:     kase.Department,
		ClientID:       kase.ClientID,
		PrimaryStaffID: kase.PrimaryStaffID,
		Title:          kase.Title,
		Description:    kase.Description,
		Status:         kase.Status,
		CreatedAt:      kase.CreatedAt,
		UpdatedAt:      kase.UpdatedAt,
		ClosedAt:       kase.ClosedAt,
	}
}

func caseHistoryResponse(entry *domain.CaseHistory) dto.CaseHistoryResponse {
	return dto.CaseHistoryResponse{
		ID:          entry.ID,
		ChangedByID: entry.ChangedByID,
		ChangeType:  entry.ChangeType,
		OldValue:    entry.OldValue,
		NewValue:    entry.NewValue,
		CreatedAt:   entry.CreatedAt,
	}
}

func assignmentResponse(assignment *domain.CaseAssignment) dto.CaseAssignmentResponse {
	return dto.CaseAssignmentResponse{
		ID:        assignment.ID,
		CaseID:    assignment.CaseID,
		StaffID:   assignment.StaffID,
		GrantedBy: assignment.GrantedBy,
		CreatedAt: assignment.CreatedAt,
	}
}
