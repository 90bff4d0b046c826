package testutil

import (
	"errors"
	"testing"

	apperrors "repairdesk/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	appErr := requireAppError(t, err, expectedCode)
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertAppReason checks that err is an *AppError with the expected reason.
func AssertAppReason(t *testing.T, err error, expectedReason string) {
	t.Helper()

	appErr := requireAppError(t, err, expectedReason)
	if appErr.Reason != expectedReason {
		t.Errorf("expected error reason %q, got %q (message: %s)", expectedReason, appErr.Reason, appErr.Message)
	}
}

func requireAppError(t *testing.T, err error, expected string) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError %q, got nil", expected)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
