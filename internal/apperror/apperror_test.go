package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/geocoder89/timetrack/internal/apperror"
)

func TestStatusCodeByKind(t *testing.T) {
	tests := []struct {
		err  *apperror.Error
		want int
	}{
		{apperror.Validation("invalid_request", "bad"), http.StatusBadRequest},
		{apperror.Auth("unauthorized", "no token"), http.StatusUnauthorized},
		{apperror.Permission("forbidden", "not yours"), http.StatusForbidden},
		{apperror.NotFound("not_found", "missing"), http.StatusNotFound},
		{apperror.Conflict("email_taken", "taken"), http.StatusConflict},
		{apperror.New(apperror.KindInternal, "internal_error", "boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.err.StatusCode(); got != tt.want {
			t.Fatalf("%s: got status %d, want %d", tt.err.Code, got, tt.want)
		}
	}
}

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	sentinel := apperror.NotFound("project_not_found", "project not found")
	cause := errors.New("no rows in result set")

	wrapped := fmt.Errorf("get project: %w", apperror.Wrap(sentinel, cause))

	if !errors.Is(wrapped, sentinel) {
		t.Fatalf("expected wrapped error to match sentinel")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected wrapped error to expose cause")
	}

	other := apperror.NotFound("task_not_found", "task not found")
	if errors.Is(wrapped, other) {
		t.Fatalf("different codes must not match")
	}

	if apperror.KindOf(wrapped) != apperror.KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", apperror.KindOf(wrapped))
	}
}

func TestKindOfPlainError(t *testing.T) {
	if apperror.KindOf(errors.New("db down")) != apperror.KindInternal {
		t.Fatalf("plain errors should be internal")
	}
}
