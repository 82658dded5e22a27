package error

import "errors"

// Income domain errors. Amount, date and recurrence validation reuse the expense sentinels.
var (
	// ErrIncomeNotFound is returned when an income is not found in the system.
	ErrIncomeNotFound = errors.New("income not found")

	// ErrNotAuthorizedToModifyIncome is returned when the income belongs to someone else.
	ErrNotAuthorizedToModifyIncome = errors.New("not authorized to modify income")
)

// IncomeErrorCode defines error codes for income errors.
// Format: INC-XXYYYY where XX is category and YYYY is specific error.
type IncomeErrorCode string

const (
	ErrCodeIncomeNotFound          IncomeErrorCode = "INC-010001"
	ErrCodeNotAuthorizedIncome     IncomeErrorCode = "INC-010002"
	ErrCodeInvalidIncomeAmount     IncomeErrorCode = "INC-010003"
	ErrCodeInvalidIncomeDate       IncomeErrorCode = "INC-010004"
	ErrCodeInvalidIncomeRecurrence IncomeErrorCode = "INC-010005"
	ErrCodeIncomeCategoryInvalid   IncomeErrorCode = "INC-010006"
	ErrCodeIncomeNoteTooLong       IncomeErrorCode = "INC-010007"
	ErrCodeMissingIncomeFields     IncomeErrorCode = "INC-010008"
)

// IncomeError represents an income error with code and message.
type IncomeError struct {
	Code    IncomeErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *IncomeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *IncomeError) Unwrap() error {
	return e.Err
}

// NewIncomeError creates a new IncomeError with the given code and message.
func NewIncomeError(code IncomeErrorCode, message string, err error) *IncomeError {
	return &IncomeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
