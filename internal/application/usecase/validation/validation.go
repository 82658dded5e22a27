// Package validation holds the field rules shared by expense, income and budget use cases.
// Every function returns a domain sentinel error so callers can wrap it in their own code.
package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// MaxNoteLength is the maximum length of a note in characters.
const MaxNoteLength = 500

// Amount checks the minimum of 0.01. Amounts are stored with scale 2.
func Amount(amount decimal.Decimal) error {
	if amount.Round(2).LessThan(entity.MinimumAmount) {
		return domainerror.ErrInvalidAmount
	}
	return nil
}

// OccurrenceDate rejects dates after today.
func OccurrenceDate(date, now time.Time) error {
	if entity.TruncateToDay(date).After(entity.TruncateToDay(now)) {
		return domainerror.ErrFutureDate
	}
	return nil
}

// Recurrence requires a unit iff the record is recurring.
func Recurrence(isRecurring bool, unit entity.RecurrenceUnit) error {
	if !isRecurring {
		if unit != "" {
			return domainerror.ErrUnexpectedRecurrenceUnit
		}
		return nil
	}
	if unit == "" {
		return domainerror.ErrMissingRecurrenceUnit
	}
	if !unit.IsValid() {
		return domainerror.ErrInvalidRecurrenceUnit
	}
	return nil
}

// Note checks the note length.
func Note(note string) error {
	if len([]rune(note)) > MaxNoteLength {
		return domainerror.ErrNoteTooLong
	}
	return nil
}

// Category loads the referenced category and checks that the user may use it
// for records of the wanted type. A nil id is accepted and yields nil.
func Category(
	ctx context.Context,
	repo adapter.CategoryRepository,
	userID uuid.UUID,
	categoryID *uuid.UUID,
	want entity.CategoryType,
) (*entity.Category, error) {
	if categoryID == nil {
		return nil, nil
	}

	category, err := repo.FindByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if !category.VisibleTo(userID) {
		return nil, domainerror.ErrCategoryNotVisible
	}
	if category.Type != want {
		return nil, domainerror.ErrCategoryTypeMismatch
	}

	return category, nil
}

// IsCategoryError reports whether err came from Category as a validation failure.
func IsCategoryError(err error) bool {
	return errors.Is(err, domainerror.ErrCategoryNotFound) ||
		errors.Is(err, domainerror.ErrCategoryNotVisible) ||
		errors.Is(err, domainerror.ErrCategoryTypeMismatch)
}
