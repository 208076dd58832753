package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unauthenticated", NewUnauthenticated(), http.StatusUnauthorized, "Login Error"},
		{"wrong credentials", NewWrongCredentials(), http.StatusUnauthorized, "Username/password incorrect"},
		{"not found", NewNotFound(), http.StatusNotFound, "Record not found"},
		{"conflict", NewConflict(errors.New("duplicate key")), http.StatusConflict, "Record existed"},
		{"validation", NewValidationError("Passwords don't match"), http.StatusBadRequest, "Passwords don't match"},
		{"validation default message", NewValidationError(""), http.StatusBadRequest, "Invalid request"},
		{"operation conflict", NewOperationConflict(), http.StatusConflict, "Operation not allowed on own account"},
		{"store error", NewStoreError(errors.New("relation users does not exist")), http.StatusBadRequest, "Query Error"},
		{"signing error", NewSigningError(errors.New("empty key")), http.StatusInternalServerError, "Internal Server Error"},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
		{"wrapped domain error", fmt.Errorf("login: %w", NewWrongCredentials()), http.StatusUnauthorized, "Username/password incorrect"},
		{"fiber error", fiber.NewError(http.StatusNotFound, "Cannot GET /nope"), http.StatusNotFound, "Cannot GET /nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := Translate(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestStoreErrorDoesNotLeakDetail(t *testing.T) {
	err := NewStoreError(errors.New("pq: password authentication failed for user admin"))

	_, msg := Translate(err)
	assert.NotContains(t, msg, "admin")
	assert.Contains(t, err.Error(), "admin", "detail stays available for server logs")
}

func TestDomainErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewConflict(errors.New("dup")))

	assert.True(t, errors.Is(err, NewConflict(nil)))
	assert.False(t, errors.Is(err, NewNotFound()))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}
