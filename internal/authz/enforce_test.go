package authz

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/casework-service/internal/auth"
	"github.com/spec-kit/casework-service/internal/domain"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

type fakeDecisionRecorder struct {
	counts map[string]int
}

func (r *fakeDecisionRecorder) RecordAuthzDecision(resource, decision string) {
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[resource+"|"+decision]++
}

type enforceFixture struct {
	app      *fiber.App
	tokens   *auth.TokenManager
	recorder *fakeDecisionRecorder
}

func newEnforceFixture(t *testing.T) *enforceFixture {
	t.Helper()

	directory := &fakeStaffDirectory{members: map[string]*domain.StaffMember{
		"admin-1": {ID: "admin-1", Role: domain.StaffRoleAdmin, Active: true},
		"manager-1": {
			ID: "manager-1", Role: domain.StaffRoleOfficeManager,
			OfficeID: strPtr("office-1"), Active: true,
		},
		"lawyer-1": {
			ID: "lawyer-1", Role: domain.StaffRoleLawyer,
			OfficeID: strPtr("office-1"), Department: strPtr("Legal"), Active: true,
		},
		"inactive-1": {ID: "inactive-1", Role: domain.StaffRoleLawyer, Active: false},
		"weird-1":    {ID: "weird-1", Role: "INTERN", Active: true},
		"homeless-1": {ID: "homeless-1", Role: domain.StaffRoleLawyer, Active: true},
	}}

	cases := &fakeCaseStore{cases: map[string]*domain.Case{
		"case-1": {ID: "case-1", OfficeID: "office-1", Department: "Legal", Status: domain.CaseStatusOpen},
		"case-2": {ID: "case-2", OfficeID: "office-2", Department: "Psicologia", Status: domain.CaseStatusOpen},
	}}

	recorder := &fakeDecisionRecorder{}
	enforcer := NewEnforcer(
		NewIdentityResolver(directory),
		NewCaseEvaluator(cases, &fakeTaskLinkStore{}, &fakeAssignmentStore{}),
		NewAppointmentEvaluator(&fakeAppointmentStore{}),
		NewTaskEvaluator(&fakeTaskStore{}, &fakeAssignmentStore{}),
		recorder,
	)

	tokens := auth.NewTokenManager("test-secret", 60)
	authMiddleware := auth.NewMiddleware(tokens, nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}
		domainErr := apperrors.ToDomainError(err)
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
			"error": domainErr.Message,
			"code":  domainErr.Code,
		})
	})

	staff := app.Group("/staff", authMiddleware.Handle, enforcer.Authorize())
	staff.Get("/cases/:id", enforcer.RequireCase("id"), func(c *fiber.Ctx) error {
		caller, _ := CallerFromContext(c)
		return c.JSON(fiber.Map{"caller_id": caller.ID})
	})
	staff.Get("/tasks", enforcer.TaskListScope(), func(c *fiber.Ctx) error {
		scope, _ := ScopeFromContext(c)
		resp := fiber.Map{}
		if scope.AssignedTo != nil {
			resp["assigned_to"] = *scope.AssignedTo
		}
		return c.JSON(resp)
	})
	staff.Get("/admin-only", enforcer.RequireRole(domain.StaffRoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	staff.Get("/no-roles", enforcer.RequireRole(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	// Stacking Authorize twice must behave like stacking it once.
	staff.Get("/double", enforcer.Authorize(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	return &enforceFixture{app: app, tokens: tokens, recorder: recorder}
}

func (f *enforceFixture) request(t *testing.T, path, staffID string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if staffID != "" {
		token, _, err := f.tokens.GenerateToken(staffID, domain.SubjectTypeStaff, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	body := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return resp, body
}

func TestEnforcerRequiresAuthentication(t *testing.T) {
	fix := newEnforceFixture(t)
	resp, _ := fix.request(t, "/staff/cases/case-1", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEnforcerRejectsClientTokens(t *testing.T) {
	fix := newEnforceFixture(t)
	token, _, err := fix.tokens.GenerateToken("client-1", domain.SubjectTypeClient, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/staff/cases/case-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := fix.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestEnforcerIdentityFailures(t *testing.T) {
	fix := newEnforceFixture(t)

	tests := []struct {
		name    string
		staffID string
		status  int
		code    string
	}{
		{"unknown staff id", "ghost", http.StatusUnauthorized, "IDENTITY_NOT_FOUND"},
		{"inactive staff", "inactive-1", http.StatusUnauthorized, "IDENTITY_NOT_FOUND"},
		{"unrecognized role", "weird-1", http.StatusForbidden, "INVALID_ROLE"},
		{"no office assigned", "homeless-1", http.StatusForbidden, "OFFICE_NOT_ASSIGNED"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := fix.request(t, "/staff/cases/case-1", tc.staffID)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestEnforcerCaseDecisions(t *testing.T) {
	fix := newEnforceFixture(t)

	tests := []struct {
		name    string
		staffID string
		path    string
		status  int
		code    string
	}{
		{"admin reaches anything", "admin-1", "/staff/cases/case-2", http.StatusOK, ""},
		{"lawyer reaches own office case", "lawyer-1", "/staff/cases/case-1", http.StatusOK, ""},
		{"lawyer denied other office", "lawyer-1", "/staff/cases/case-2", http.StatusForbidden, "ACCESS_DENIED"},
		{"manager own office", "manager-1", "/staff/cases/case-1", http.StatusOK, ""},
		{"manager denied other office", "manager-1", "/staff/cases/case-2", http.StatusForbidden, "ACCESS_DENIED"},
		{"missing case is 404", "admin-1", "/staff/cases/case-404", http.StatusNotFound, "RESOURCE_NOT_FOUND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := fix.request(t, tc.path, tc.staffID)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				assert.Equal(t, tc.code, body["code"])
			}
		})
	}
}

func TestEnforcerTaskListScope(t *testing.T) {
	fix := newEnforceFixture(t)

	resp, body := fix.request(t, "/staff/tasks", "lawyer-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "lawyer-1", body["assigned_to"])

	resp, body = fix.request(t, "/staff/tasks", "manager-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "assigned_to")

	resp, body = fix.request(t, "/staff/tasks", "admin-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "assigned_to")
}

func TestEnforcerRequireRole(t *testing.T) {
	fix := newEnforceFixture(t)

	resp, _ := fix.request(t, "/staff/admin-only", "admin-1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := fix.request(t, "/staff/admin-only", "lawyer-1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ACCESS_DENIED", body["code"])
}

func TestEnforcerRequireRoleWithoutRolesDeniesEveryone(t *testing.T) {
	fix := newEnforceFixture(t)

	for _, staffID := range []string{"admin-1", "manager-1", "lawyer-1"} {
		resp, body := fix.request(t, "/staff/no-roles", staffID)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, staffID)
		assert.Equal(t, "ACCESS_DENIED", body["code"], staffID)
	}
}

func TestEnforcerRecordsDecisions(t *testing.T) {
	fix := newEnforceFixture(t)

	fix.request(t, "/staff/cases/case-1", "lawyer-1")
	fix.request(t, "/staff/cases/case-2", "lawyer-1")
	fix.request(t, "/staff/cases/case-404", "admin-1")

	assert.Equal(t, 1, fix.recorder.counts["case|ALLOW"])
	assert.Equal(t, 1, fix.recorder.counts["case|DENY"])
	assert.Equal(t, 1, fix.recorder.counts["case|NOT_FOUND"])
}

func TestEnforcerAuthorizeIsIdempotent(t *testing.T) {
	fix := newEnforceFixture(t)

	resp, _ := fix.request(t, "/staff/double", "lawyer-1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "DENY", DecisionDeny.String())
	assert.Equal(t, "ALLOW", DecisionAllow.String())
	assert.Equal(t, "NOT_FOUND", DecisionNotFound.String())
}
