package error

import "errors"

// Category domain errors, raised while validating category references.
var (
	// ErrCategoryNotFound is returned when a category is not found in the system.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryTypeMismatch is returned when an expense references an INCOME category or vice versa.
	ErrCategoryTypeMismatch = errors.New("category type does not match record type")

	// ErrCategoryNotVisible is returned when a category is owned by another user.
	ErrCategoryNotVisible = errors.New("category does not belong to user")
)
