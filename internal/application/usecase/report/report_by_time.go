package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// ReportByTimeOutput summarizes expenses and incomes over a window.
type ReportByTimeOutput struct {
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Period         string          `json:"period"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	ExpenseCount   int64           `json:"expense_count"`
	AverageExpense decimal.Decimal `json:"average_expense"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	IncomeCount    int64           `json:"income_count"`
	AverageIncome  decimal.Decimal `json:"average_income"`
	Balance        decimal.Decimal `json:"balance"`
}

// GetReportByTimeUseCase builds the report for a window.
type GetReportByTimeUseCase struct {
	ledger adapter.LedgerStore
	cache  adapter.ReportCache
}

// NewGetReportByTimeUseCase creates a new GetReportByTimeUseCase instance. cache may be nil.
func NewGetReportByTimeUseCase(ledger adapter.LedgerStore, cache adapter.ReportCache) *GetReportByTimeUseCase {
	return &GetReportByTimeUseCase{ledger: ledger, cache: cache}
}

// Execute builds the report.
func (uc *GetReportByTimeUseCase) Execute(ctx context.Context, input DateRange) (*ReportByTimeOutput, error) {
	r, err := validateRange(input)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc.cache, r.UserID, cacheKey("by-time", r), func(ctx context.Context) (*ReportByTimeOutput, error) {
		expense, income, err := sumBothSides(ctx, uc.ledger, r)
		if err != nil {
			return nil, err
		}

		return &ReportByTimeOutput{
			StartDate:      r.StartDate,
			EndDate:        r.EndDate,
			Period:         PeriodLabel(r.StartDate, r.EndDate),
			TotalExpense:   expense.Total,
			ExpenseCount:   expense.Count,
			AverageExpense: average(expense.Total, expense.Count),
			TotalIncome:    income.Total,
			IncomeCount:    income.Count,
			AverageIncome:  average(income.Total, income.Count),
			Balance:        income.Total.Sub(expense.Total),
		}, nil
	})
}

// sumBothSides runs the expense and income totals concurrently.
func sumBothSides(ctx context.Context, ledger adapter.LedgerStore, r DateRange) (expense, income entity.AmountSummary, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		expense, err = ledger.SumAndCountExpense(gctx, r.UserID, nil, r.StartDate, r.EndDate)
		if err != nil {
			return fmt.Errorf("failed to sum expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		income, err = ledger.SumAndCountIncome(gctx, r.UserID, nil, r.StartDate, r.EndDate)
		if err != nil {
			return fmt.Errorf("failed to sum incomes: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return entity.AmountSummary{}, entity.AmountSummary{}, err
	}
	return expense, income, nil
}
