package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/casework-service/internal/api/http"
	"github.com/spec-kit/casework-service/internal/api/http/handlers"
	"github.com/spec-kit/casework-service/internal/auth"
	"github.com/spec-kit/casework-service/internal/authz"
	"github.com/spec-kit/casework-service/internal/config"
	"github.com/spec-kit/casework-service/internal/events"
	"github.com/spec-kit/casework-service/internal/observability"
	"github.com/spec-kit/casework-service/internal/persistence"
	"github.com/spec-kit/casework-service/internal/repository"
	"github.com/spec-kit/casework-service/internal/service"
	"github.com/spec-kit/casework-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	clientRepo := repository.NewClientRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	officeRepo := repository.NewOfficeRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	caseRepo := repository.NewCaseRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	assignmentRepo := repository.NewCaseAssignmentRepository(pool)
	historyRepo := repository.NewCaseHistoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		ClientRepo:        clientRepo,
		StaffRepo:         staffRepo,
		PasswordResetRepo: resetRepo,
	})
	caseService := service.NewCaseService(service.CaseDependencies{
		CaseRepo:       caseRepo,
		OfficeRepo:     officeRepo,
		DepartmentRepo: departmentRepo,
		StaffRepo:      staffRepo,
		HistoryRepo:    historyRepo,
		Dispatcher:     dispatcher,
	})
	appointmentService := service.NewAppointmentService(service.AppointmentDependencies{
		AppointmentRepo: appointmentRepo,
		CaseRepo:        caseRepo,
		StaffRepo:       staffRepo,
		Dispatcher:      dispatcher,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:   taskRepo,
		CaseRepo:   caseRepo,
		StaffRepo:  staffRepo,
		Dispatcher: dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		AssignmentRepo: assignmentRepo,
		CaseRepo:       caseRepo,
		StaffRepo:      staffRepo,
		Dispatcher:     dispatcher,
	})
	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo:      staffRepo,
		OfficeRepo:     officeRepo,
		DepartmentRepo: departmentRepo,
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	identity := authz.NewIdentityResolver(staffRepo)
	caseEvaluator := authz.NewCaseEvaluator(caseRepo, taskRepo, assignmentRepo)
	appointmentEvaluator := authz.NewAppointmentEvaluator(appointmentRepo)
	taskEvaluator := authz.NewTaskEvaluator(taskRepo, assignmentRepo)
	enforcer := authz.NewEnforcer(identity, caseEvaluator, appointmentEvaluator, taskEvaluator, metrics)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), clientRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Clients:        handlers.NewClientsHandler(authService, caseService, appointmentService),
		Staff:          handlers.NewStaffHandler(authService, staffService),
		Cases:          handlers.NewCasesHandler(caseService, assignmentService),
		Appointments:   handlers.NewAppointmentsHandler(appointmentService),
		Tasks:          handlers.NewTasksHandler(taskService),
		AuthMiddleware: authMiddleware,
		Enforcer:       enforcer,
	})

	worker.StartNotificationWorker(notificationService, logger)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
