// Package error defines domain-specific errors for the finance ledger.
package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when a budget is not found in the system.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrBudgetAlreadyExists is returned when an active budget already covers the bucket.
	ErrBudgetAlreadyExists = errors.New("budget already exists for this category and month")

	// ErrInvalidBudgetLimit is returned when the amount limit is not positive.
	ErrInvalidBudgetLimit = errors.New("amount limit must be greater than zero")

	// ErrInvalidAlertThreshold is returned when the alert threshold is outside 0-100.
	ErrInvalidAlertThreshold = errors.New("alert threshold must be between 0 and 100")

	// ErrInvalidBudgetPeriod is returned when year or month are out of range.
	ErrInvalidBudgetPeriod = errors.New("invalid budget year or month")

	// ErrBudgetVersionConflict is returned when a budget changed between read and write.
	ErrBudgetVersionConflict = errors.New("budget was modified concurrently")

	// ErrNotAuthorizedToModifyBudget is returned when the budget belongs to someone else.
	ErrNotAuthorizedToModifyBudget = errors.New("not authorized to modify budget")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BDG-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeBudgetNotFound        BudgetErrorCode = "BDG-010001"
	ErrCodeBudgetAlreadyExists   BudgetErrorCode = "BDG-010002"
	ErrCodeInvalidBudgetLimit    BudgetErrorCode = "BDG-010003"
	ErrCodeInvalidAlertThreshold BudgetErrorCode = "BDG-010004"
	ErrCodeBudgetVersionConflict BudgetErrorCode = "BDG-010005"
	ErrCodeInvalidBudgetPeriod   BudgetErrorCode = "BDG-010006"
	ErrCodeNotAuthorizedBudget   BudgetErrorCode = "BDG-010007"
	ErrCodeBudgetCategoryInvalid BudgetErrorCode = "BDG-010008"

	// Internal errors (99XXXX)
	ErrCodeBudgetSyncFailed BudgetErrorCode = "BDG-990001"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsRetryable reports whether the whole operation may succeed if the caller retries it.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBudgetVersionConflict)
}
