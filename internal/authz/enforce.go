package authz

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/casework-service/internal/auth"
	"github.com/spec-kit/casework-service/internal/domain"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

const (
	callerKey = "authz_caller"
	scopeKey  = "authz_scope"
)

// DecisionRecorder receives the outcome of every single-resource
// authorization check, keyed by resource kind.
type DecisionRecorder interface {
	RecordAuthzDecision(resource, decision string)
}

// Enforcer is the single chokepoint every protected staff route passes
// through. It resolves the caller and scope exactly once per request,
// publishes them for downstream handlers and query builders, and
// short-circuits deny/not-found outcomes before any handler runs.
type Enforcer struct {
	identity     *IdentityResolver
	cases        *CaseEvaluator
	appointments *AppointmentEvaluator
	tasks        *TaskEvaluator
	recorder     DecisionRecorder
}

// NewEnforcer constructs the enforcer. recorder may be nil.
func NewEnforcer(identity *IdentityResolver, cases *CaseEvaluator, appointments *AppointmentEvaluator, tasks *TaskEvaluator, recorder DecisionRecorder) *Enforcer {
	return &Enforcer{identity: identity, cases: cases, appointments: appointments, tasks: tasks, recorder: recorder}
}

// Authorize resolves identity, role, and scope for the request. Safe to
// stack multiple times on a route: later invocations find the resolved
// caller in request locals and pass through.
func (e *Enforcer) Authorize() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CallerFromContext(c); ok {
			return c.Next()
		}

		claims, ok := auth.ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if claims.Subject != domain.SubjectTypeStaff {
			return apperrors.NewDomainError("STAFF_ONLY", "staff credentials required", http.StatusForbidden, nil)
		}

		caller, err := e.identity.Resolve(c.UserContext(), claims.SubjectID)
		if err != nil {
			return MapError(err)
		}
		scope, err := ResolveScope(caller)
		if err != nil {
			return MapError(err)
		}

		c.Locals(callerKey, caller)
		c.Locals(scopeKey, &scope)
		return c.Next()
	}
}

// RequireRole allows only the listed roles past. Used for admin-style
// management endpoints that are not tied to a single resource.
func (e *Enforcer) RequireRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		// An empty allow-list is a wiring mistake; it must never widen
		// access, so every caller is denied.
		if _, exists := allowedSet[caller.Role]; !exists {
			return accessDenied()
		}
		return c.Next()
	}
}

// RequireCase gates single-case routes on the case evaluator.
func (e *Enforcer) RequireCase(param string) fiber.Handler {
	return e.require(param, func(ctx context.Context, caller *Caller, id string) (Decision, error) {
		return e.cases.Evaluate(ctx, caller, id)
	}, "case")
}

// RequireAppointment gates single-appointment routes.
func (e *Enforcer) RequireAppointment(param string) fiber.Handler {
	return e.require(param, func(ctx context.Context, caller *Caller, id string) (Decision, error) {
		return e.appointments.Evaluate(ctx, caller, id)
	}, "appointment")
}

// RequireTask gates single-task routes.
func (e *Enforcer) RequireTask(param string) fiber.Handler {
	return e.require(param, func(ctx context.Context, caller *Caller, id string) (Decision, error) {
		return e.tasks.Evaluate(ctx, caller, id)
	}, "task")
}

// TaskListScope narrows the task list to "my tasks" for staff-like
// callers. Office managers keep their office scope; full access stays
// unrestricted.
func (e *Enforcer) TaskListScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if caller.Info.Class == ClassStaffLike {
			scope, _ := ScopeFromContext(c)
			if scope != nil {
				assignedTo := caller.ID
				scope.AssignedTo = &assignedTo
			}
		}
		return c.Next()
	}
}

func (e *Enforcer) require(param string, evaluate func(context.Context, *Caller, string) (Decision, error), resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		id := c.Params(param)
		if id == "" {
			return apperrors.NewValidationError("missing resource id", nil)
		}

		decision, err := evaluate(c.UserContext(), caller, id)
		if err != nil {
			return MapError(err)
		}
		if e.recorder != nil {
			e.recorder.RecordAuthzDecision(resource, decision.String())
		}
		switch decision {
		case DecisionAllow:
			return c.Next()
		case DecisionNotFound:
			return apperrors.NewDomainError("RESOURCE_NOT_FOUND", resource+" not found", http.StatusNotFound, nil)
		default:
			return accessDenied()
		}
	}
}

// CallerFromContext retrieves the resolved caller.
func CallerFromContext(c *fiber.Ctx) (*Caller, bool) {
	val := c.Locals(callerKey)
	if val == nil {
		return nil, false
	}
	caller, ok := val.(*Caller)
	return caller, ok
}

// ScopeFromContext retrieves the request scope.
func ScopeFromContext(c *fiber.Ctx) (*Scope, bool) {
	val := c.Locals(scopeKey)
	if val == nil {
		return nil, false
	}
	scope, ok := val.(*Scope)
	return scope, ok
}

// MapError converts engine sentinels into transport-level errors with
// stable machine-readable codes.
func MapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrIdentityNotFound):
		return apperrors.NewDomainError("IDENTITY_NOT_FOUND", "identity not found", http.StatusUnauthorized, nil)
	case errors.Is(err, ErrInvalidRole):
		return apperrors.NewDomainError("INVALID_ROLE", "role not recognized", http.StatusForbidden, nil)
	case errors.Is(err, ErrOfficeNotAssigned):
		return apperrors.NewDomainError("OFFICE_NOT_ASSIGNED", "no office assigned", http.StatusForbidden, nil)
	case errors.Is(err, ErrStoreUnavailable):
		return apperrors.NewDomainError("STORE_UNAVAILABLE", "authorization store unavailable", http.StatusInternalServerError, nil)
	default:
		return apperrors.MapError(err)
	}
}

func accessDenied() error {
	return apperrors.NewDomainError("ACCESS_DENIED", "access denied", http.StatusForbidden, nil)
}
