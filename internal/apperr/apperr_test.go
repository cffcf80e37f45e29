package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"janmat/backend/internal/apperr"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(apperr.NotFound("complaint not found")))
	assert.Equal(t, http.StatusForbidden, apperr.StatusOf(apperr.Forbidden("not the owner")))
	assert.Equal(t, http.StatusConflict, apperr.StatusOf(apperr.Conflict("email already registered")))
	assert.Equal(t, http.StatusServiceUnavailable, apperr.StatusOf(apperr.Unavailable("broker unreachable")))
	assert.Equal(t, http.StatusInternalServerError, apperr.StatusOf(errors.New("disk full")))
}

func TestStatusOf_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading owner: %w", apperr.NotFound("user not found"))
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(wrapped))
	assert.True(t, apperr.IsNotFound(wrapped))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, apperr.IsNotFound(apperr.NotFound("gone")))
	assert.False(t, apperr.IsNotFound(apperr.Forbidden("nope")))
	assert.False(t, apperr.IsNotFound(errors.New("gone")))
}
