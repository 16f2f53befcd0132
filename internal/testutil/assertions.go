package testutil

import (
	"errors"
	"testing"

	apperrors "github.com/patrickacs/stocklio/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertMoney checks a monetary amount against its expected value. Amounts
// are rounded to two decimals at computation, so comparison is exact.
func AssertMoney(t *testing.T, label string, got, want float64) {
	t.Helper()

	if got != want {
		t.Errorf("%s: expected %.2f, got %.2f", label, want, got)
	}
}
