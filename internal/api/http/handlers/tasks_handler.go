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

// TasksHandler manages staff task endpoints.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: taskService}
}

// CreateTask POST /staff/tasks.
func (h *TasksHandler) CreateTask(c *fiber.Ctx) error {
	caller, ok := authz.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CaseID == "" || req.Title == "" {
		return apperrors.NewValidationError("case_id and title required", nil)
	}

	task, err := h.tasks.CreateTask(c.UserContext(), caller, service.TaskCreateInput{
		CaseID:     req.CaseID,
		AssignedTo: req.AssignedTo,
		Title:      req.Title,
		Details:    req.Details,
		DueDate:    req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// ListTasks GET /staff/tasks. Staff-like callers only ever see their own
// assignments here; the list scope middleware narrows the scope first.
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	scope, _ := authz.ScopeFromContext(c)
	input := parseTaskListQuery(c)
	tasks, err := h.tasks.ListTasks(c.UserContext(), scope, input)
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTask GET /staff/tasks/:id.
func (h *TasksHandler) GetTask(c *fiber.Ctx) error {
	task, err := h.tasks.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// UpdateTask PATCH /staff/tasks/:id.
func (h *TasksHandler) UpdateTask(c *fiber.Ctx) error {
	caller, ok := authz.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	task, err := h.tasks.UpdateTask(c.UserContext(), caller, c.Params("id"), service.TaskUpdateInput{
		AssignedTo: req.AssignedTo,
		Title:      req.Title,
		Details:    req.Details,
		Status:     req.Status,
		DueDate:    req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// DeleteTask DELETE /staff/tasks/:id.
func (h *TasksHandler) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseTaskListQuery(c *fiber.Ctx) service.TaskListInput {
	input := service.TaskListInput{}
	if caseID := c.Query("case_id"); caseID != "" {
		input.CaseID = &caseID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			input.Statuses = append(input.Statuses, domain.TaskStatus(strings.TrimSpace(part)))
		}
	}
	input.DueFrom = parseTime(c.Query("due_from"))
	input.DueTo = parseTime(c.Query("due_to"))

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:         task.ID,
		CaseID:     task.CaseID,
		AssignedTo: task.AssignedTo,
		Title:      task.Title,
		Details:    task.Details,
		Status:     task.Status,
		DueDate:    task.DueDate,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
}
