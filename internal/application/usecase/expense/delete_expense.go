package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// DeleteExpenseInput represents the input for expense deletion.
type DeleteExpenseInput struct {
	UserID    uuid.UUID
	ExpenseID uuid.UUID
}

// DeleteExpenseUseCase soft-deletes an expense and resyncs its former bucket.
type DeleteExpenseUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	synchronizer BudgetSynchronizer
	transactor   adapter.Transactor
	cache        adapter.ReportCache
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance. cache may be nil.
func NewDeleteExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	synchronizer BudgetSynchronizer,
	transactor adapter.Transactor,
	cache adapter.ReportCache,
) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		expenseRepo:  expenseRepo,
		synchronizer: synchronizer,
		transactor:   transactor,
		cache:        cache,
	}
}

// Execute performs the expense deletion.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) error {
	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		expense, err := findOwnedExpense(ctx, uc.expenseRepo, input.ExpenseID, input.UserID)
		if err != nil {
			return err
		}

		if err := uc.expenseRepo.Delete(ctx, expense.ID); err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}

		_, err = uc.synchronizer.ResyncBucket(ctx, expense.Bucket())
		return err
	})
	if err != nil {
		return err
	}

	invalidateReports(ctx, uc.cache, input.UserID)
	return nil
}
