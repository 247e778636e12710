package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound("layout %s not found", "abc")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "layout abc not found", err.Error())
}

func TestIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Validation("grid columns out of range"))

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Equal(t, KindValidation, KindOf(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("x"), http.StatusNotFound},
		{"already exists", AlreadyExists("x"), http.StatusConflict},
		{"validation", Validation("x"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("x"), http.StatusUnauthorized},
		{"forbidden", Forbidden("x"), http.StatusForbidden},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "query layouts")

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "email already in use", PublicMessage(AlreadyExists("email already in use")))
	assert.ErrorContains(t, err, "connection refused")
}
