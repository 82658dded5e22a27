package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBudget_DerivedValues(t *testing.T) {
	tests := []struct {
		name          string
		limit         string
		spent         string
		threshold     int
		alertSent     bool
		wantUsage     string
		wantOver      bool
		wantRemaining string
		wantAlert     bool
	}{
		{
			name:          "threshold crossed below the limit",
			limit:         "1000.00",
			spent:         "850.00",
			threshold:     80,
			wantUsage:     "85",
			wantOver:      false,
			wantRemaining: "150",
			wantAlert:     true,
		},
		{
			name:          "alert already sent",
			limit:         "1000.00",
			spent:         "850.00",
			threshold:     80,
			alertSent:     true,
			wantUsage:     "85",
			wantRemaining: "150",
			wantAlert:     false,
		},
		{
			name:          "exactly at threshold",
			limit:         "500.00",
			spent:         "400.00",
			threshold:     80,
			wantUsage:     "80",
			wantRemaining: "100",
			wantAlert:     true,
		},
		{
			name:          "over budget",
			limit:         "100.00",
			spent:         "120.50",
			threshold:     80,
			wantUsage:     "120.5",
			wantOver:      true,
			wantRemaining: "-20.5",
			wantAlert:     true,
		},
		{
			name:          "zero limit yields zero usage",
			limit:         "0",
			spent:         "10.00",
			threshold:     80,
			wantUsage:     "0",
			wantOver:      true,
			wantRemaining: "-10",
			wantAlert:     false,
		},
		{
			name:          "below threshold",
			limit:         "300.00",
			spent:         "100.00",
			threshold:     80,
			wantUsage:     "33.33",
			wantRemaining: "200",
			wantAlert:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBudget(uuid.New(), nil, 2024, 3, dec(tt.limit), tt.threshold)
			b.SpentAmount = dec(tt.spent)
			b.IsAlertSent = tt.alertSent

			if got := b.UsagePercentage(); !got.Equal(dec(tt.wantUsage)) {
				t.Errorf("UsagePercentage() = %s, want %s", got, tt.wantUsage)
			}
			if got := b.IsOverBudget(); got != tt.wantOver {
				t.Errorf("IsOverBudget() = %v, want %v", got, tt.wantOver)
			}
			if got := b.RemainingAmount(); !got.Equal(dec(tt.wantRemaining)) {
				t.Errorf("RemainingAmount() = %s, want %s", got, tt.wantRemaining)
			}
			if got := b.ShouldAlert(); got != tt.wantAlert {
				t.Errorf("ShouldAlert() = %v, want %v", got, tt.wantAlert)
			}
		})
	}
}

func TestBudget_MarkAlertSentLatches(t *testing.T) {
	b := NewBudget(uuid.New(), nil, 2024, 3, dec("1000"), 80)
	b.SpentAmount = dec("900")

	if !b.ShouldAlert() {
		t.Fatal("expected alert before latch")
	}
	b.MarkAlertSent()
	if b.ShouldAlert() {
		t.Error("expected no alert after latch")
	}

	b.SpentAmount = dec("10")
	if !b.IsAlertSent {
		t.Error("latch must survive spending dropping under the threshold")
	}
}

func TestBudgetBucket(t *testing.T) {
	userID := uuid.New()
	catA := uuid.New()
	catB := uuid.New()
	march := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    BudgetBucket
		b    BudgetBucket
		want bool
	}{
		{"same category and month", BucketFor(userID, &catA, march), BucketFor(userID, &catA, march), true},
		{"different category", BucketFor(userID, &catA, march), BucketFor(userID, &catB, march), false},
		{"different month", BucketFor(userID, &catA, march), BucketFor(userID, &catA, april), false},
		{"both uncategorized", BucketFor(userID, nil, march), BucketFor(userID, nil, march), true},
		{"uncategorized vs category", BucketFor(userID, nil, march), BucketFor(userID, &catA, march), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("month range spans the whole month", func(t *testing.T) {
		start, end := BucketFor(userID, nil, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)).MonthRange()
		if !start.Equal(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected start %v", start)
		}
		if !end.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected end %v", end)
		}
	})
}

func TestPeriodAggregate_Key(t *testing.T) {
	tests := []struct {
		granularity Granularity
		row         PeriodAggregate
		want        string
	}{
		{GranularityMonthly, PeriodAggregate{Year: 2024, Period: 3}, "2024-03"},
		{GranularityQuarterly, PeriodAggregate{Year: 2024, Period: 2}, "2024-Q2"},
		{GranularityYearly, PeriodAggregate{Year: 2023}, "2023"},
	}

	for _, tt := range tests {
		t.Run(string(tt.granularity), func(t *testing.T) {
			if got := tt.row.Key(tt.granularity); got != tt.want {
				t.Errorf("Key() = %s, want %s", got, tt.want)
			}
		})
	}
}
