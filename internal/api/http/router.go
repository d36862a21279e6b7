package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/casework-service/internal/api/http/handlers"
	"github.com/spec-kit/casework-service/internal/auth"
	"github.com/spec-kit/casework-service/internal/authz"
	"github.com/spec-kit/casework-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Clients        *handlers.ClientsHandler
	Staff          *handlers.StaffHandler
	Cases          *handlers.CasesHandler
	Appointments   *handlers.AppointmentsHandler
	Tasks          *handlers.TasksHandler
	AuthMiddleware *auth.Middleware
	Enforcer       *authz.Enforcer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/clients/register", cfg.Clients.Register)
	authGroup.Post("/clients/login", cfg.Clients.Login)
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/reset/request", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Staff.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Staff.ChangePassword)

	clients := app.Group("/clients", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireClient())
	clients.Get("/me", cfg.Clients.Me)
	clients.Get("/cases", cfg.Clients.ListMyCases)
	clients.Get("/appointments", cfg.Clients.ListMyAppointments)

	// Every staff route passes the enforcement point; single-resource
	// routes add the per-resource evaluator for that id.
	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, cfg.Enforcer.Authorize())

	cases := staff.Group("/cases")
	cases.Post("", cfg.Cases.CreateCase)
	cases.Get("", cfg.Cases.ListCases)
	cases.Get("/:id", cfg.Enforcer.RequireCase("id"), cfg.Cases.GetCase)
	cases.Patch("/:id", cfg.Enforcer.RequireCase("id"), cfg.Cases.UpdateCase)
	cases.Get("/:id/history", cfg.Enforcer.RequireCase("id"), cfg.Cases.CaseHistory)
	cases.Get("/:id/assignments", cfg.Enforcer.RequireCase("id"), cfg.Cases.ListAssignments)
	cases.Post("/:id/assignments",
		cfg.Enforcer.RequireRole(domain.StaffRoleAdmin, domain.StaffRoleOfficeManager),
		cfg.Enforcer.RequireCase("id"),
		cfg.Cases.GrantAssignment)
	cases.Delete("/:id/assignments/:staffId",
		cfg.Enforcer.RequireRole(domain.StaffRoleAdmin, domain.StaffRoleOfficeManager),
		cfg.Enforcer.RequireCase("id"),
		cfg.Cases.RevokeAssignment)

	appointments := staff.Group("/appointments")
	appointments.Post("", cfg.Appointments.CreateAppointment)
	appointments.Get("", cfg.Appointments.ListAppointments)
	appointments.Get("/:id", cfg.Enforcer.RequireAppointment("id"), cfg.Appointments.GetAppointment)
	appointments.Patch("/:id", cfg.Enforcer.RequireAppointment("id"), cfg.Appointments.UpdateAppointment)

	tasks := staff.Group("/tasks")
	tasks.Post("", cfg.Tasks.CreateTask)
	tasks.Get("", cfg.Enforcer.TaskListScope(), cfg.Tasks.ListTasks)
	tasks.Get("/:id", cfg.Enforcer.RequireTask("id"), cfg.Tasks.GetTask)
	tasks.Patch("/:id", cfg.Enforcer.RequireTask("id"), cfg.Tasks.UpdateTask)
	tasks.Delete("/:id", cfg.Enforcer.RequireTask("id"), cfg.Tasks.DeleteTask)

	members := staff.Group("/members")
	members.Get("", cfg.Enforcer.RequireRole(domain.StaffRoleAdmin, domain.StaffRoleOfficeManager), cfg.Staff.ListStaff)
	members.Get("/:id", cfg.Enforcer.RequireRole(domain.StaffRoleAdmin, domain.StaffRoleOfficeManager), cfg.Staff.GetStaff)
	members.Post("", cfg.Enforcer.RequireRole(domain.StaffRoleAdmin), cfg.Staff.CreateStaff)
	members.Patch("/:id", cfg.Enforcer.RequireRole(domain.StaffRoleAdmin), cfg.Staff.UpdateStaff)

	offices := staff.Group("/offices")
	offices.Get("", cfg.Staff.ListOffices)
	offices.Post("", cfg.Enforcer.RequireRole(domain.StaffRoleAdmin), cfg.Staff.CreateOffice)

	departments := staff.Group("/departments")
	departments.Get("", cfg.Staff.ListDepartments)
	departments.Post("", cfg.Enforcer.RequireRole(domain.StaffRoleAdmin), cfg.Staff.CreateDepartment)
}
