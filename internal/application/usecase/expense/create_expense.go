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

// CreateExpenseInput represents the input for expense creation.
type CreateExpenseInput struct {
	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Amount         decimal.Decimal
	ExpenseDate    time.Time
	Note           string
	IsRecurring    bool
	RecurrenceUnit entity.RecurrenceUnit
}

// CreateExpenseOutput represents the output of expense creation.
type CreateExpenseOutput struct {
	Expense *ExpenseOutput
}

// CreateExpenseUseCase records an expense and resyncs its budget.
type CreateExpenseUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	categoryRepo adapter.CategoryRepository
	synchronizer BudgetSynchronizer
	transactor   adapter.Transactor
	cache        adapter.ReportCache
	now          func() time.Time
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance. cache may be nil.
func NewCreateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	categoryRepo adapter.CategoryRepository,
	synchronizer BudgetSynchronizer,
	transactor adapter.Transactor,
	cache adapter.ReportCache,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		synchronizer: synchronizer,
		transactor:   transactor,
		cache:        cache,
		now:          time.Now,
	}
}

// Execute performs the expense creation.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	expense := entity.NewExpense(
		input.UserID,
		input.CategoryID,
		input.Amount,
		input.ExpenseDate,
		input.Note,
		input.IsRecurring,
		input.RecurrenceUnit,
	)

	if err := validateExpense(ctx, uc.categoryRepo, expense, uc.now()); err != nil {
		return nil, err
	}

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.expenseRepo.Create(ctx, expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		_, err := uc.synchronizer.ResyncBucket(ctx, expense.Bucket())
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateReports(ctx, uc.cache, input.UserID)

	return &CreateExpenseOutput{Expense: NewExpenseOutput(expense)}, nil
}
