package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{RouteNotFound("GET", "/nope"), http.StatusNotFound},
		{NotFound("42"), http.StatusNotFound},
		{Validation("bad"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("admins cannot like"), http.StatusForbidden},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Kind.Status(), tt.err.Error())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("service.Like: %w", Forbidden("admins cannot like"))
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.True(t, Is(err, KindForbidden))
	assert.False(t, Is(err, KindNotFound))

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindInternal))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "id 42 not found", NotFound("42").Error())
	assert.Equal(t, "route not found: GET /api/nope", RouteNotFound("GET", "/api/nope").Error())

	inner := errors.New("db down")
	err := Internal(inner)
	assert.ErrorIs(t, err, inner)
}
