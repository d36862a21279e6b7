package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/casework-service/internal/observability"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

func newMiddlewareApp(t *testing.T, timeout time.Duration) (*fiber.App, *observability.Metrics) {
	t.Helper()
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zap.NewNop(), metrics, timeout)
	return app, metrics
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)

	body := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return resp, body
}

func TestRequestTimeoutReachesHandlerContext(t *testing.T) {
	app, _ := newMiddlewareApp(t, 5*time.Second)
	app.Get("/deadline", func(c *fiber.Ctx) error {
		_, ok := c.UserContext().Deadline()
		return c.JSON(fiber.Map{"has_deadline": ok})
	})

	resp, body := doRequest(t, app, "/deadline")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["has_deadline"])
}

func TestExpiredRequestDeadlineMapsToGatewayTimeout(t *testing.T) {
	app, _ := newMiddlewareApp(t, 20*time.Millisecond)
	app.Get("/slow", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		<-ctx.Done()
		return apperrors.MapError(ctx.Err())
	})

	resp, body := doRequest(t, app, "/slow")
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Equal(t, "REQUEST_TIMEOUT", body["code"])
}

func TestPanicBecomesInternalError(t *testing.T) {
	app, metrics := newMiddlewareApp(t, 0)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, body := doRequest(t, app, "/boom")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, int64(1), metrics.Snapshot().Errors["/boom|GET|INTERNAL_ERROR"])
}

func TestErrorBodyIsFlat(t *testing.T) {
	app, _ := newMiddlewareApp(t, 0)
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	})

	resp, body := doRequest(t, app, "/invalid")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "title is required", body["error"])
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "title", details["field"])
}
