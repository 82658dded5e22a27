package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// UpdateExpenseInput represents the input for expense update. Nil fields are left unchanged.
type UpdateExpenseInput struct {
	UserID         uuid.UUID
	ExpenseID      uuid.UUID
	Amount         *decimal.Decimal
	ExpenseDate    *time.Time
	CategoryID     *uuid.UUID
	ClearCategory  bool // moves the expense to the uncategorized bucket
	Note           *string
	IsRecurring    *bool
	RecurrenceUnit *entity.RecurrenceUnit
}

// UpdateExpenseOutput represents the output of expense update.
type UpdateExpenseOutput struct {
	Expense *ExpenseOutput
}

// UpdateExpenseUseCase edits an expense. When the edit moves the expense to
// another category or month, both the old and the new bucket are resynced in
// one transaction.
type UpdateExpenseUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	categoryRepo adapter.CategoryRepository
	synchronizer BudgetSynchronizer
	transactor   adapter.Transactor
	cache        adapter.ReportCache
	now          func() time.Time
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance. cache may be nil.
func NewUpdateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	categoryRepo adapter.CategoryRepository,
	synchronizer BudgetSynchronizer,
	transactor adapter.Transactor,
	cache adapter.ReportCache,
) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		synchronizer: synchronizer,
		transactor:   transactor,
		cache:        cache,
		now:          time.Now,
	}
}

// Execute performs the expense update.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	var updated *entity.Expense

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		expense, err := findOwnedExpense(ctx, uc.expenseRepo, input.ExpenseID, input.UserID)
		if err != nil {
			return err
		}

		oldBucket := expense.Bucket()
		applyExpenseChanges(expense, input)

		if err := validateExpense(ctx, uc.categoryRepo, expense, uc.now()); err != nil {
			return err
		}

		expense.UpdatedAt = time.Now().UTC()
		if err := uc.expenseRepo.Update(ctx, expense); err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}

		if _, err := uc.synchronizer.ResyncBucket(ctx, oldBucket); err != nil {
			return err
		}
		if newBucket := expense.Bucket(); !newBucket.Equal(oldBucket) {
			if _, err := uc.synchronizer.ResyncBucket(ctx, newBucket); err != nil {
				return err
			}
		}

		updated = expense
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateReports(ctx, uc.cache, input.UserID)

	return &UpdateExpenseOutput{Expense: NewExpenseOutput(updated)}, nil
}

func applyExpenseChanges(expense *entity.Expense, input UpdateExpenseInput) {
	if input.Amount != nil {
		expense.Amount = input.Amount.Round(2)
	}
	if input.ExpenseDate != nil {
		expense.ExpenseDate = entity.TruncateToDay(*input.ExpenseDate)
	}
	if input.ClearCategory {
		expense.CategoryID = nil
	} else if input.CategoryID != nil {
		categoryID := *input.CategoryID
		expense.CategoryID = &categoryID
	}
	if input.Note != nil {
		expense.Note = *input.Note
	}
	if input.IsRecurring != nil {
		expense.IsRecurring = *input.IsRecurring
		if !expense.IsRecurring {
			expense.RecurrenceUnit = ""
		}
	}
	if input.RecurrenceUnit != nil {
		expense.RecurrenceUnit = *input.RecurrenceUnit
	}
}
