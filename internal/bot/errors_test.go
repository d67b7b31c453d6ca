package bot

import (
	"errors"
	"fmt"
	"testing"

	"nuclight.org/attendance/internal/duration"
	"nuclight.org/attendance/internal/poll"
)

func TestUserError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := UserErrorf("user did something wrong")
		if err.Message != "user did something wrong" {
			t.Errorf("expected message 'user did something wrong', got '%s'", err.Message)
		}
		if err.Cause != nil {
			t.Error("expected no cause")
		}
		if err.Error() != "user did something wrong" {
			t.Errorf("expected Error() to return message, got '%s'", err.Error())
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := WrapUserError("Failed to send", cause)
		if err.Cause != cause {
			t.Error("expected cause to be set")
		}
		if err.Error() != "Failed to send: connection reset" {
			t.Errorf("unexpected Error() result: %s", err.Error())
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		cause := errors.New("original error")
		err := WrapUserError("wrapper", cause)
		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to match cause")
		}
	})
}

func TestIsUserError(t *testing.T) {
	if !IsUserError(UserErrorf("test")) {
		t.Error("expected IsUserError to return true")
	}
	if IsUserError(errors.New("regular error")) {
		t.Error("expected IsUserError to return false")
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"user error", UserErrorf("friendly message"), "friendly message"},
		{"wrapped user error", WrapUserError("friendly message", errors.New("internal")), "friendly message"},
		{"not authorized", poll.ErrNotAuthorized, MsgNotAuthorized},
		{"wrapped no active poll", fmt.Errorf("cast vote: %w", poll.ErrNoActivePoll), MsgNoActivePoll},
		{"stale poll", poll.ErrStalePoll, MsgStalePoll},
		{"super-admin", poll.ErrCannotRemoveSuperAdmin, MsgCannotRemoveSuperAdmin},
		{"bad duration", fmt.Errorf("%w: %q", duration.ErrInvalidDuration, "abc"), MsgInvalidDuration},
		{"regular error", errors.New("database error"), MsgInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.want {
				t.Errorf("GetUserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"user error without cause", UserErrorf("user mistake"), false},
		{"user error with cause", WrapUserError("failed", errors.New("db error")), true},
		{"domain rejection", poll.ErrAlreadyAdmin, false},
		{"platform failure", platformErr("pin", errors.New("Forbidden")), true},
		{"regular error", errors.New("some error"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldLog(tt.err); got != tt.want {
				t.Errorf("ShouldLog() = %v, want %v", got, tt.want)
			}
		})
	}
}
