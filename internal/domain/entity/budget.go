package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAlertThreshold is the usage percentage that triggers an alert when none is given.
const DefaultAlertThreshold = 80

var hundred = decimal.NewFromInt(100)

// BudgetBucket identifies the (user, category, year, month) window a budget tracks.
type BudgetBucket struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID // nil is the uncategorized bucket
	Year       int
	Month      int
}

// BucketFor derives the bucket containing the given date.
func BucketFor(userID uuid.UUID, categoryID *uuid.UUID, date time.Time) BudgetBucket {
	return BudgetBucket{
		UserID:     userID,
		CategoryID: categoryID,
		Year:       date.Year(),
		Month:      int(date.Month()),
	}
}

// Equal reports whether both buckets address the same budget.
func (b BudgetBucket) Equal(other BudgetBucket) bool {
	if b.UserID != other.UserID || b.Year != other.Year || b.Month != other.Month {
		return false
	}
	if b.CategoryID == nil || other.CategoryID == nil {
		return b.CategoryID == nil && other.CategoryID == nil
	}
	return *b.CategoryID == *other.CategoryID
}

// MonthRange returns the first day of the bucket month and the first day of the next month.
func (b BudgetBucket) MonthRange() (start, end time.Time) {
	start = time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (b BudgetBucket) String() string {
	category := "uncategorized"
	if b.CategoryID != nil {
		category = b.CategoryID.String()
	}
	return fmt.Sprintf("%s/%s/%04d-%02d", b.UserID, category, b.Year, b.Month)
}

// Budget caps the spending of one bucket.
// SpentAmount is maintained by the budget synchronizer only.
type Budget struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Year           int
	Month          int
	AmountLimit    decimal.Decimal
	SpentAmount    decimal.Decimal
	AlertThreshold int
	IsAlertSent    bool
	Active         bool
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewBudget creates an active budget with nothing spent.
func NewBudget(userID uuid.UUID, categoryID *uuid.UUID, year, month int, amountLimit decimal.Decimal, alertThreshold int) *Budget {
	now := time.Now().UTC()

	return &Budget{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     categoryID,
		Year:           year,
		Month:          month,
		AmountLimit:    amountLimit.Round(2),
		SpentAmount:    decimal.Zero,
		AlertThreshold: alertThreshold,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Bucket returns the bucket tracked by the budget.
func (b *Budget) Bucket() BudgetBucket {
	return BudgetBucket{UserID: b.UserID, CategoryID: b.CategoryID, Year: b.Year, Month: b.Month}
}

// UsagePercentage returns spent/limit*100 rounded to 2 places, or zero when the limit is zero.
func (b *Budget) UsagePercentage() decimal.Decimal {
	if b.AmountLimit.IsZero() {
		return decimal.Zero
	}
	return b.SpentAmount.Div(b.AmountLimit).Mul(hundred).Round(2)
}

// IsOverBudget reports whether spending exceeded the limit.
func (b *Budget) IsOverBudget() bool {
	return b.SpentAmount.GreaterThan(b.AmountLimit)
}

// RemainingAmount may be negative when the budget is exceeded.
func (b *Budget) RemainingAmount() decimal.Decimal {
	return b.AmountLimit.Sub(b.SpentAmount)
}

// ShouldAlert reports whether the threshold is crossed and no alert went out yet.
func (b *Budget) ShouldAlert() bool {
	if b.IsAlertSent {
		return false
	}
	return b.UsagePercentage().GreaterThanOrEqual(decimal.NewFromInt(int64(b.AlertThreshold)))
}

// MarkAlertSent latches the alert flag. It is never cleared automatically.
func (b *Budget) MarkAlertSent() {
	b.IsAlertSent = true
}
