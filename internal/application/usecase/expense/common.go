// Package expense contains expense-related use cases. Every mutation resyncs the
// affected budget buckets inside the same transaction as the expense write.
package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/validation"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// BudgetSynchronizer recomputes the budget of one bucket.
type BudgetSynchronizer interface {
	ResyncBucket(ctx context.Context, bucket entity.BudgetBucket) (*entity.Budget, error)
}

// ExpenseOutput is the view of an expense returned by the use cases.
type ExpenseOutput struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Amount         decimal.Decimal
	ExpenseDate    time.Time
	Note           string
	IsRecurring    bool
	RecurrenceUnit entity.RecurrenceUnit
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewExpenseOutput snapshots an expense.
func NewExpenseOutput(e *entity.Expense) *ExpenseOutput {
	return &ExpenseOutput{
		ID:             e.ID,
		UserID:         e.UserID,
		CategoryID:     e.CategoryID,
		Amount:         e.Amount,
		ExpenseDate:    e.ExpenseDate,
		Note:           e.Note,
		IsRecurring:    e.IsRecurring,
		RecurrenceUnit: e.RecurrenceUnit,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// validateExpense checks every field rule of an expense about to be written.
func validateExpense(ctx context.Context, categoryRepo adapter.CategoryRepository, e *entity.Expense, now time.Time) error {
	if err := validation.Amount(e.Amount); err != nil {
		return domainerror.NewExpenseError(domainerror.ErrCodeInvalidExpenseAmount, "amount must be at least 0.01", err)
	}
	if err := validation.OccurrenceDate(e.ExpenseDate, now); err != nil {
		return domainerror.NewExpenseError(domainerror.ErrCodeInvalidExpenseDate, "expense date must not be in the future", err)
	}
	if err := validation.Recurrence(e.IsRecurring, e.RecurrenceUnit); err != nil {
		return domainerror.NewExpenseError(domainerror.ErrCodeInvalidExpenseRecurrence, err.Error(), err)
	}
	if err := validation.Note(e.Note); err != nil {
		return domainerror.NewExpenseError(domainerror.ErrCodeExpenseNoteTooLong, "note must be at most 500 characters", err)
	}
	if _, err := validation.Category(ctx, categoryRepo, e.UserID, e.CategoryID, entity.CategoryTypeExpense); err != nil {
		if validation.IsCategoryError(err) {
			return domainerror.NewExpenseError(domainerror.ErrCodeExpenseCategoryInvalid, err.Error(), err)
		}
		return err
	}
	return nil
}

// findOwnedExpense loads an expense the user may modify.
func findOwnedExpense(ctx context.Context, repo adapter.ExpenseRepository, expenseID, userID uuid.UUID) (*entity.Expense, error) {
	expense, err := repo.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseNotFound,
				"expense not found",
				domainerror.ErrExpenseNotFound,
			)
		}
		return nil, err
	}

	if expense.UserID != userID {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeNotAuthorizedExpense,
			"not authorized to modify this expense",
			domainerror.ErrNotAuthorizedToModifyExpense,
		)
	}

	return expense, nil
}

// invalidateReports drops cached reports after a committed mutation.
// Failures only cost freshness until the cache TTL expires.
func invalidateReports(ctx context.Context, cache adapter.ReportCache, userID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, userID); err != nil {
		slog.Warn("failed to invalidate report cache", "user_id", userID, "error", err)
	}
}
