package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), fiber.StatusBadRequest},
		{NotFound("teacher"), fiber.StatusNotFound},
		{Authorization("no subscription"), fiber.StatusForbidden},
		{LimitReached("limit reached", 50), fiber.StatusForbidden},
		{Conflict("duplicate"), fiber.StatusConflict},
		{Internal("boom", errors.New("db down")), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Status(), tt.err.Message)
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "teacher not found", NotFound("teacher").Error())
}

func TestLimitReachedCarriesCeiling(t *testing.T) {
	err := LimitReached("subscription limit reached for students (maximum 50)", 50)
	assert.Equal(t, 50, err.Limit)
	assert.Equal(t, KindLimit, err.Kind)
}

func TestAsThroughWrapping(t *testing.T) {
	inner := Conflict("already subscribed")
	wrapped := fmt.Errorf("creating subscription: %w", inner)

	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindConflict, e.Kind)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsKind(t *testing.T) {
	err := Authorization("account is banned")
	assert.True(t, IsKind(err, KindAuthorization))
	assert.False(t, IsKind(err, KindLimit))
	assert.False(t, IsKind(errors.New("plain"), KindAuthorization))
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load teacher", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
