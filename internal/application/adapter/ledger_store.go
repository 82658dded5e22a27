package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// LedgerStore exposes the aggregate queries over expenses and incomes.
// Date windows are inclusive calendar days: [start, end]. Soft-deleted rows never count.
type LedgerStore interface {
	// SumAndCountExpense totals expenses in the window. A nil categoryID means every category.
	SumAndCountExpense(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, start, end time.Time) (entity.AmountSummary, error)

	// SumAndCountIncome totals incomes in the window. A nil categoryID means every category.
	SumAndCountIncome(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, start, end time.Time) (entity.AmountSummary, error)

	// SumExpenseForBucket sums the expenses of one budget bucket, zero when there are none.
	// A nil bucket category sums uncategorized expenses only.
	SumExpenseForBucket(ctx context.Context, bucket entity.BudgetBucket) (decimal.Decimal, error)

	// GroupExpenseByCategory groups expenses by category, ordered by total descending.
	GroupExpenseByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.CategoryAggregate, error)

	// GroupExpenseByPeriod groups expenses by period, ordered ascending.
	GroupExpenseByPeriod(ctx context.Context, userID uuid.UUID, granularity entity.Granularity, start, end time.Time) ([]entity.PeriodAggregate, error)

	// GroupIncomeByPeriod groups incomes by period, ordered ascending.
	GroupIncomeByPeriod(ctx context.Context, userID uuid.UUID, granularity entity.Granularity, start, end time.Time) ([]entity.PeriodAggregate, error)
}
