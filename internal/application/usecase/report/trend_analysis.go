package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// TrendDirection is the overall movement of expenses across a trend.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "INCREASING"
	TrendDecreasing TrendDirection = "DECREASING"
	TrendStable     TrendDirection = "STABLE"
)

var trendMargin = decimal.RequireFromString("0.1")

// GetTrendAnalysisInput represents the input for a trend analysis.
type GetTrendAnalysisInput struct {
	UserID      uuid.UUID
	Granularity entity.Granularity
	StartDate   time.Time
	EndDate     time.Time
}

// TrendPeriod summarizes one period of a trend.
type TrendPeriod struct {
	Period           string           `json:"period"`
	Year             int              `json:"year"`
	PeriodNumber     int              `json:"period_number"`
	TotalExpense     decimal.Decimal  `json:"total_expense"`
	ExpenseCount     int64            `json:"expense_count"`
	TotalIncome      decimal.Decimal  `json:"total_income"`
	IncomeCount      int64            `json:"income_count"`
	Balance          decimal.Decimal  `json:"balance"`
	ChangePercentage *decimal.Decimal `json:"change_percentage"`
}

// TrendAnalysisOutput is the ordered period list with its statistics.
// Periods follow the expense series; IncomeOnlyPeriods counts income periods with no expenses.
type TrendAnalysisOutput struct {
	StartDate         time.Time          `json:"start_date"`
	EndDate           time.Time          `json:"end_date"`
	Granularity       entity.Granularity `json:"granularity"`
	Periods           []TrendPeriod      `json:"periods"`
	AverageExpense    decimal.Decimal    `json:"average_expense"`
	MaxExpense        decimal.Decimal    `json:"max_expense"`
	MinExpense        decimal.Decimal    `json:"min_expense"`
	TrendDirection    TrendDirection     `json:"trend_direction"`
	IncomeOnlyPeriods int                `json:"income_only_periods"`
}

// GetTrendAnalysisUseCase builds trend analyses.
type GetTrendAnalysisUseCase struct {
	ledger adapter.LedgerStore
	cache  adapter.ReportCache
}

// NewGetTrendAnalysisUseCase creates a new GetTrendAnalysisUseCase instance. cache may be nil.
func NewGetTrendAnalysisUseCase(ledger adapter.LedgerStore, cache adapter.ReportCache) *GetTrendAnalysisUseCase {
	return &GetTrendAnalysisUseCase{ledger: ledger, cache: cache}
}

// Execute runs the analysis.
func (uc *GetTrendAnalysisUseCase) Execute(ctx context.Context, input GetTrendAnalysisInput) (*TrendAnalysisOutput, error) {
	if !input.Granularity.IsValid() {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidGranularity,
			"granularity must be: MONTHLY, QUARTERLY, or YEARLY",
			domainerror.ErrInvalidGranularity,
		)
	}

	r, err := validateRange(DateRange{UserID: input.UserID, StartDate: input.StartDate, EndDate: input.EndDate})
	if err != nil {
		return nil, err
	}

	key := cacheKey("trends", r, string(input.Granularity))
	return cached(ctx, uc.cache, r.UserID, key, func(ctx context.Context) (*TrendAnalysisOutput, error) {
		var expenses, incomes []entity.PeriodAggregate
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			var err error
			expenses, err = uc.ledger.GroupExpenseByPeriod(gctx, r.UserID, input.Granularity, r.StartDate, r.EndDate)
			if err != nil {
				return fmt.Errorf("failed to group expenses by period: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			incomes, err = uc.ledger.GroupIncomeByPeriod(gctx, r.UserID, input.Granularity, r.StartDate, r.EndDate)
			if err != nil {
				return fmt.Errorf("failed to group incomes by period: %w", err)
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}

		out := AnalyzeTrend(input.Granularity, expenses, incomes)
		out.StartDate = r.StartDate
		out.EndDate = r.EndDate
		return out, nil
	})
}

type periodID struct {
	year   int
	period int
}

// AnalyzeTrend merges two ascending period series into a trend. The list is driven
// by the expense series; a missing income row reads as zero.
func AnalyzeTrend(granularity entity.Granularity, expenses, incomes []entity.PeriodAggregate) *TrendAnalysisOutput {
	incomeByPeriod := make(map[periodID]entity.PeriodAggregate, len(incomes))
	for _, in := range incomes {
		incomeByPeriod[periodID{in.Year, in.Period}] = in
	}

	periods := make([]TrendPeriod, 0, len(expenses))
	seen := make(map[periodID]bool, len(expenses))
	var previous *decimal.Decimal

	for _, ex := range expenses {
		id := periodID{ex.Year, ex.Period}
		seen[id] = true

		income := incomeByPeriod[id]
		tp := TrendPeriod{
			Period:       ex.Key(granularity),
			Year:         ex.Year,
			PeriodNumber: ex.Period,
			TotalExpense: ex.Total,
			ExpenseCount: ex.Count,
			TotalIncome:  income.Total,
			IncomeCount:  income.Count,
			Balance:      income.Total.Sub(ex.Total),
		}

		if previous != nil && !previous.IsZero() {
			change := ex.Total.Sub(*previous).Div(*previous).Mul(hundred).Round(4)
			tp.ChangePercentage = &change
		}

		current := ex.Total
		previous = &current
		periods = append(periods, tp)
	}

	incomeOnly := 0
	for id := range incomeByPeriod {
		if !seen[id] {
			incomeOnly++
		}
	}

	out := &TrendAnalysisOutput{
		Granularity:       granularity,
		Periods:           periods,
		AverageExpense:    decimal.Zero,
		MaxExpense:        decimal.Zero,
		MinExpense:        decimal.Zero,
		TrendDirection:    trendDirection(periods),
		IncomeOnlyPeriods: incomeOnly,
	}

	if len(periods) > 0 {
		totals := expenseTotals(periods)
		out.AverageExpense = decimal.Avg(totals[0], totals[1:]...).Round(2)
		out.MaxExpense = decimal.Max(totals[0], totals[1:]...)
		out.MinExpense = decimal.Min(totals[0], totals[1:]...)
	}

	return out
}

// trendDirection compares the mean expense of the two halves of the list.
// The split is at len/2, so an odd middle period belongs to the second half.
func trendDirection(periods []TrendPeriod) TrendDirection {
	if len(periods) < 2 {
		return TrendStable
	}

	totals := expenseTotals(periods)
	mid := len(totals) / 2
	firstAvg := decimal.Avg(totals[0], totals[1:mid]...)
	secondAvg := decimal.Avg(totals[mid], totals[mid+1:]...)

	diff := secondAvg.Sub(firstAvg)
	threshold := firstAvg.Mul(trendMargin)

	switch {
	case diff.GreaterThan(threshold):
		return TrendIncreasing
	case diff.LessThan(threshold.Neg()):
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func expenseTotals(periods []TrendPeriod) []decimal.Decimal {
	totals := make([]decimal.Decimal, len(periods))
	for i, p := range periods {
		totals[i] = p.TotalExpense
	}
	return totals
}
