package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense is not found in the system.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrNotAuthorizedToModifyExpense is returned when the expense belongs to someone else.
	ErrNotAuthorizedToModifyExpense = errors.New("not authorized to modify expense")

	// ErrInvalidAmount is returned when an amount is below the minimum of 0.01.
	ErrInvalidAmount = errors.New("amount must be at least 0.01")

	// ErrFutureDate is returned when an occurrence date lies in the future.
	ErrFutureDate = errors.New("date must not be in the future")

	// ErrMissingRecurrenceUnit is returned when a recurring record has no unit.
	ErrMissingRecurrenceUnit = errors.New("recurrence unit is required for recurring records")

	// ErrUnexpectedRecurrenceUnit is returned when a one-off record carries a unit.
	ErrUnexpectedRecurrenceUnit = errors.New("recurrence unit is only allowed for recurring records")

	// ErrInvalidRecurrenceUnit is returned when the unit is not DAILY, WEEKLY, MONTHLY or YEARLY.
	ErrInvalidRecurrenceUnit = errors.New("invalid recurrence unit")

	// ErrNoteTooLong is returned when the note exceeds the maximum length.
	ErrNoteTooLong = errors.New("note too long")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeExpenseNotFound          ExpenseErrorCode = "EXP-010001"
	ErrCodeNotAuthorizedExpense     ExpenseErrorCode = "EXP-010002"
	ErrCodeInvalidExpenseAmount     ExpenseErrorCode = "EXP-010003"
	ErrCodeInvalidExpenseDate       ExpenseErrorCode = "EXP-010004"
	ErrCodeInvalidExpenseRecurrence ExpenseErrorCode = "EXP-010005"
	ErrCodeExpenseCategoryInvalid   ExpenseErrorCode = "EXP-010006"
	ErrCodeExpenseNoteTooLong       ExpenseErrorCode = "EXP-010007"
	ErrCodeMissingExpenseFields     ExpenseErrorCode = "EXP-010008"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
