package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesDomainErrorsThrough(t *testing.T) {
	original := NewValidationError("bad input", map[string]any{"field": "title"})
	mapped := ToDomainError(original)
	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)

	wrapped := fmt.Errorf("handler: %w", original)
	assert.Equal(t, "VALIDATION_FAILED", ToDomainError(wrapped).Code)
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	mapped := ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.EqualError(t, mapped.Unwrap(), "disk on fire")
}

func TestMapErrorRecognizesMissingRows(t *testing.T) {
	mapped := ToDomainError(MapError(fmt.Errorf("get case: %w", pgx.ErrNoRows)))
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestMapErrorRecognizesDeadlines(t *testing.T) {
	mapped := ToDomainError(MapError(context.DeadlineExceeded))
	assert.Equal(t, "REQUEST_TIMEOUT", mapped.Code)
	assert.Equal(t, http.StatusGatewayTimeout, mapped.HTTPStatus)
}

func TestMapErrorNil(t *testing.T) {
	require.NoError(t, MapError(nil))
	assert.Nil(t, ToDomainError(nil))
}
