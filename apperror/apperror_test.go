package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		want int
	}{
		{"auth errors map to 401", NewAuthError("no token", nil), http.StatusUnauthorized},
		{"forbidden errors map to 403", NewForbiddenError("not allowed", nil), http.StatusForbidden},
		{"not found errors map to 404", NewNotFoundError("gone", nil), http.StatusNotFound},
		{"validation errors map to 400", NewValidationError("bad input", nil), http.StatusBadRequest},
		{"bad request errors map to 400", NewBadRequestError("bad request", nil), http.StatusBadRequest},
		// The wire contract keeps duplicate registrations at 400.
		{"conflict errors map to 400", NewConflictError("email taken", nil), http.StatusBadRequest},
		{"database errors map to 500", NewDatabaseError("query failed", nil), http.StatusInternalServerError},
		{"cache errors map to 500", NewCacheError("redis down", nil), http.StatusInternalServerError},
		{"internal errors map to 500", NewInternalError("oops", nil), http.StatusInternalServerError},
		{"unknown errors map to 500", NewAppError(UnknownError, "??", nil), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.StatusCode(); got != c.want {
				t.Errorf("StatusCode() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestResponseHidesUnderlyingError(t *testing.T) {
	underlying := errors.New("connection refused to db host 10.0.0.3")
	appErr := NewDatabaseError("Server error", underlying)

	resp := appErr.ToResponse()
	if resp.Message != "Server error" {
		t.Errorf("response message = %q, want the user-facing message", resp.Message)
	}

	// The full detail stays available for logging via Error().
	if appErr.Error() == resp.Message {
		t.Error("Error() should include the underlying detail for logs")
	}
	if !errors.Is(appErr, underlying) {
		t.Error("underlying error must remain reachable through Unwrap")
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while deleting: %w", NewForbiddenError("not allowed", nil))

	if !IsForbidden(wrapped) {
		t.Error("IsForbidden must match a wrapped ForbiddenError")
	}
	if IsNotFound(wrapped) {
		t.Error("IsNotFound must not match a ForbiddenError")
	}

	if _, ok := FromError(errors.New("plain")); ok {
		t.Error("FromError must not convert a plain error")
	}
	if appErr, ok := FromError(wrapped); !ok || appErr.Type != ForbiddenError {
		t.Error("FromError must find the AppError in a wrapped chain")
	}
}
