package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

func monthly(totals ...int64) []entity.PeriodAggregate {
	out := make([]entity.PeriodAggregate, len(totals))
	for i, t := range totals {
		out[i] = entity.PeriodAggregate{Year: 2024, Period: i + 1, Total: decimal.NewFromInt(t), Count: 1}
	}
	return out
}

func TestAnalyzeTrend_ChangePercentage(t *testing.T) {
	tests := []struct {
		name   string
		totals []int64
		want   []string
	}{
		{name: "rise then fall", totals: []int64{100, 150, 75}, want: []string{"", "50", "-50"}},
		{name: "zero previous has no change", totals: []int64{0, 200, 300}, want: []string{"", "", "50"}},
		{name: "single period", totals: []int64{42}, want: []string{""}},
		{name: "repeating fraction rounds to 4 places", totals: []int64{300, 400}, want: []string{"", "33.3333"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := AnalyzeTrend(entity.GranularityMonthly, monthly(tt.totals...), nil)
			if len(out.Periods) != len(tt.want) {
				t.Fatalf("expected %d periods, got %d", len(tt.want), len(out.Periods))
			}
			for i, want := range tt.want {
				got := out.Periods[i].ChangePercentage
				if want == "" {
					if got != nil {
						t.Errorf("period %d: expected no change, got %s", i, got)
					}
					continue
				}
				if got == nil || !got.Equal(decimal.RequireFromString(want)) {
					t.Errorf("period %d: expected %s, got %v", i, want, got)
				}
			}
		})
	}
}

func TestAnalyzeTrend_Direction(t *testing.T) {
	tests := []struct {
		name   string
		totals []int64
		want   TrendDirection
	}{
		{name: "doubling second half", totals: []int64{100, 100, 100, 300, 300, 300}, want: TrendIncreasing},
		{name: "within ten percent", totals: []int64{100, 100, 105}, want: TrendStable},
		{name: "falling", totals: []int64{300, 300, 100, 100}, want: TrendDecreasing},
		{name: "exactly ten percent is stable", totals: []int64{100, 110}, want: TrendStable},
		{name: "single period", totals: []int64{500}, want: TrendStable},
		{name: "empty", totals: nil, want: TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := AnalyzeTrend(entity.GranularityMonthly, monthly(tt.totals...), nil)
			if out.TrendDirection != tt.want {
				t.Errorf("expected %s, got %s", tt.want, out.TrendDirection)
			}
		})
	}
}

func TestAnalyzeTrend_Statistics(t *testing.T) {
	out := AnalyzeTrend(entity.GranularityMonthly, monthly(100, 150, 75), nil)

	if !out.AverageExpense.Equal(decimal.RequireFromString("108.33")) {
		t.Errorf("average: got %s", out.AverageExpense)
	}
	if !out.MaxExpense.Equal(decimal.NewFromInt(150)) || !out.MinExpense.Equal(decimal.NewFromInt(75)) {
		t.Errorf("max/min: got %s/%s", out.MaxExpense, out.MinExpense)
	}

	empty := AnalyzeTrend(entity.GranularityMonthly, nil, nil)
	if !empty.AverageExpense.IsZero() || !empty.MaxExpense.IsZero() || !empty.MinExpense.IsZero() {
		t.Errorf("empty trend must report zeros, got %+v", empty)
	}
	if empty.Periods == nil {
		t.Error("empty trend must carry an empty period list")
	}
}

func TestAnalyzeTrend_MergesIncome(t *testing.T) {
	expenses := []entity.PeriodAggregate{
		{Year: 2024, Period: 1, Total: decimal.NewFromInt(100), Count: 2},
		{Year: 2024, Period: 3, Total: decimal.NewFromInt(80), Count: 1},
	}
	incomes := []entity.PeriodAggregate{
		{Year: 2024, Period: 1, Total: decimal.NewFromInt(1000), Count: 1},
		{Year: 2024, Period: 2, Total: decimal.NewFromInt(1000), Count: 1},
	}

	out := AnalyzeTrend(entity.GranularityQuarterly, expenses, incomes)

	if len(out.Periods) != 2 {
		t.Fatalf("expected 2 expense-driven periods, got %d", len(out.Periods))
	}
	first, second := out.Periods[0], out.Periods[1]
	if first.Period != "2024-Q1" || second.Period != "2024-Q3" {
		t.Errorf("unexpected keys %s, %s", first.Period, second.Period)
	}
	if !first.Balance.Equal(decimal.NewFromInt(900)) {
		t.Errorf("first balance: got %s", first.Balance)
	}
	if !second.TotalIncome.IsZero() || second.IncomeCount != 0 || !second.Balance.Equal(decimal.NewFromInt(-80)) {
		t.Errorf("period without income must read as zero income, got %+v", second)
	}
	if out.IncomeOnlyPeriods != 1 {
		t.Errorf("expected 1 income-only period, got %d", out.IncomeOnlyPeriods)
	}
}
