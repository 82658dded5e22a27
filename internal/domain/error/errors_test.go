package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bare conflict", ErrBudgetVersionConflict, true},
		{"coded conflict", NewBudgetError(ErrCodeBudgetVersionConflict, "conflict", ErrBudgetVersionConflict), true},
		{"wrapped coded conflict", fmt.Errorf("update expense: %w", NewBudgetError(ErrCodeBudgetVersionConflict, "conflict", ErrBudgetVersionConflict)), true},
		{"not found", ErrBudgetNotFound, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodedErrors_Unwrap(t *testing.T) {
	cause := errors.New("db down")

	err := NewExpenseError(ErrCodeExpenseNotFound, "expense not found", cause)
	if !errors.Is(err, cause) {
		t.Error("expected ExpenseError to unwrap to its cause")
	}
	if err.Error() != "expense not found: db down" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var reportErr *ReportError
	wrapped := fmt.Errorf("handler: %w", NewReportError(ErrCodeInvalidDateRange, "bad range", nil))
	if !errors.As(wrapped, &reportErr) {
		t.Fatal("expected errors.As to find ReportError")
	}
	if reportErr.Code != ErrCodeInvalidDateRange {
		t.Errorf("unexpected code %s", reportErr.Code)
	}
	if reportErr.Error() != "bad range" {
		t.Errorf("unexpected message %q", reportErr.Error())
	}
}

func TestIsPermanentEmailFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"permanent", NewEmailError(ErrCodePermanentEmailFailure, "rejected", errors.New("422")), true},
		{"template", fmt.Errorf("render: %w", NewEmailError(ErrCodeInvalidTemplate, "unknown", ErrUnknownTemplate)), true},
		{"temporary", NewEmailError(ErrCodeTemporaryEmailFailure, "unavailable", errors.New("503")), false},
		{"plain", errors.New("timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermanentEmailFailure(tt.err); got != tt.want {
				t.Errorf("IsPermanentEmailFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthCode(t *testing.T) {
	if code := AuthCode(NewAuthError(ErrCodeExpiredToken, "expired", ErrExpiredToken)); code != ErrCodeExpiredToken {
		t.Errorf("expected %s, got %s", ErrCodeExpiredToken, code)
	}
	if code := AuthCode(errors.New("boom")); code != ErrCodeInvalidToken {
		t.Errorf("expected fallback %s, got %s", ErrCodeInvalidToken, code)
	}
}
