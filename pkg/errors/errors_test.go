package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "basic error",
			err:      New(ErrCodeRemoteFailed, "server returned HTTP 500"),
			expected: "[GRTK3001] ERROR: server returned HTTP 500",
		},
		{
			name: "error with suggestions",
			err: New(ErrCodeConnectionFailed, "connection failed").
				WithSuggestions("Check network", "Verify credentials"),
			expected: "[GRTK1001] ERROR: connection failed\nSuggestions:\n  1. Check network\n  2. Verify credentials",
		},
		{
			name: "error with context",
			err: New(ErrCodeRemoteFailed, "server returned HTTP 500").
				WithContext("url", "https://gerrit.example.com").
				WithContext("status", 500),
			expected: "[GRTK3001] ERROR: server returned HTTP 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := fmt.Errorf("connection refused")

	appErr := Wrap(baseErr, ErrCodeConnectionFailed, "failed to reach Gerrit")

	if appErr.Cause != baseErr {
		t.Error("Wrapped error should contain original error as cause")
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("errors.Is should unwrap down to the original error")
	}

	if appErr.Code != ErrCodeConnectionFailed {
		t.Errorf("Expected code %s, got %s", ErrCodeConnectionFailed, appErr.Code)
	}
}

func TestErrorIs(t *testing.T) {
	a := New(ErrCodeBranchNotFound, "unknown branch: refs/heads/x")
	b := New(ErrCodeBranchNotFound, "different message")
	c := New(ErrCodeInvalidRef, "bad prefix")

	if !errors.Is(a, b) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different codes should not match")
	}
}

func TestUnknownBranchError(t *testing.T) {
	err := UnknownBranchError("refs/heads/missing")

	if !IsUnknownBranch(err) {
		t.Error("IsUnknownBranch should report true")
	}
	if err.Context["ref"] != "refs/heads/missing" {
		t.Errorf("Expected offending ref in context, got %v", err.Context["ref"])
	}
}

func TestInvalidRefError(t *testing.T) {
	err := InvalidRefError("refs/heads/")

	if !IsInvalidRef(err) {
		t.Error("IsInvalidRef should report true")
	}
	if err.Error() != "[GRTK4002] ERROR: branch ref should start with refs/heads/" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestRemoteErrorAuthCode(t *testing.T) {
	err := RemoteError(401, "https://gerrit.example.com/a/projects/p/branches/", "Unauthorized")

	if err.Code != ErrCodeAuthenticationFailed {
		t.Errorf("Expected 401 to map to %s, got %s", ErrCodeAuthenticationFailed, err.Code)
	}
}

func TestIsCodeWalksWrappedErrors(t *testing.T) {
	inner := UnknownBranchError("refs/heads/x")
	outer := fmt.Errorf("lookup failed: %w", inner)

	if !IsCode(outer, ErrCodeBranchNotFound) {
		t.Error("IsCode should walk wrapped errors")
	}
	if IsCode(outer, ErrCodeInvalidRef) {
		t.Error("IsCode should not match unrelated codes")
	}
}
