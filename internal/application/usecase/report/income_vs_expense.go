package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// FinancialHealth classifies the balance-to-income ratio of a window.
type FinancialHealth string

const (
	HealthSurplus  FinancialHealth = "SURPLUS"
	HealthBalanced FinancialHealth = "BALANCED"
	HealthDeficit  FinancialHealth = "DEFICIT"
	HealthUnknown  FinancialHealth = "UNKNOWN"
)

var healthMargin = decimal.NewFromInt(10)

// SideSummary is the total, count and average of one side of the ledger.
type SideSummary struct {
	Total   decimal.Decimal `json:"total"`
	Count   int64           `json:"count"`
	Average decimal.Decimal `json:"average"`
}

// IncomeVsExpenseOutput compares both sides of the ledger over a window.
type IncomeVsExpenseOutput struct {
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Income          SideSummary     `json:"income"`
	Expense         SideSummary     `json:"expense"`
	Balance         decimal.Decimal `json:"balance"`
	SavingsRate     decimal.Decimal `json:"savings_rate"`
	FinancialHealth FinancialHealth `json:"financial_health"`
}

// GetIncomeVsExpenseUseCase builds the comparison.
type GetIncomeVsExpenseUseCase struct {
	ledger adapter.LedgerStore
	cache  adapter.ReportCache
}

// NewGetIncomeVsExpenseUseCase creates a new GetIncomeVsExpenseUseCase instance. cache may be nil.
func NewGetIncomeVsExpenseUseCase(ledger adapter.LedgerStore, cache adapter.ReportCache) *GetIncomeVsExpenseUseCase {
	return &GetIncomeVsExpenseUseCase{ledger: ledger, cache: cache}
}

// Execute builds the comparison.
func (uc *GetIncomeVsExpenseUseCase) Execute(ctx context.Context, input DateRange) (*IncomeVsExpenseOutput, error) {
	r, err := validateRange(input)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc.cache, r.UserID, cacheKey("income-vs-expense", r), func(ctx context.Context) (*IncomeVsExpenseOutput, error) {
		expense, income, err := sumBothSides(ctx, uc.ledger, r)
		if err != nil {
			return nil, err
		}

		balance := income.Total.Sub(expense.Total)
		savingsRate := percentageOf(balance, income.Total)

		return &IncomeVsExpenseOutput{
			StartDate:       r.StartDate,
			EndDate:         r.EndDate,
			Income:          SideSummary{Total: income.Total, Count: income.Count, Average: average(income.Total, income.Count)},
			Expense:         SideSummary{Total: expense.Total, Count: expense.Count, Average: average(expense.Total, expense.Count)},
			Balance:         balance,
			SavingsRate:     savingsRate,
			FinancialHealth: classifyHealth(income.Total, balance),
		}, nil
	})
}

// classifyHealth compares balance*100 against healthMargin*totalIncome so the
// decision is made on the exact ratio, not on the rounded savings rate.
func classifyHealth(totalIncome, balance decimal.Decimal) FinancialHealth {
	if totalIncome.IsZero() {
		return HealthUnknown
	}

	scaled := balance.Mul(hundred)
	threshold := healthMargin.Mul(totalIncome)
	switch {
	case scaled.GreaterThanOrEqual(threshold):
		return HealthSurplus
	case scaled.LessThanOrEqual(threshold.Neg()):
		return HealthDeficit
	default:
		return HealthBalanced
	}
}
