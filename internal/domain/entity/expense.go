// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurrenceUnit represents how often a recurring expense or income repeats.
type RecurrenceUnit string

const (
	RecurrenceDaily   RecurrenceUnit = "DAILY"
	RecurrenceWeekly  RecurrenceUnit = "WEEKLY"
	RecurrenceMonthly RecurrenceUnit = "MONTHLY"
	RecurrenceYearly  RecurrenceUnit = "YEARLY"
)

// IsValid reports whether the unit is one of the supported recurrence units.
func (u RecurrenceUnit) IsValid() bool {
	switch u {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// MinimumAmount is the smallest amount accepted for an expense or income.
var MinimumAmount = decimal.NewFromFloat(0.01)

// Expense represents money spent by a user.
type Expense struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CategoryID     *uuid.UUID // nil means uncategorized
	Amount         decimal.Decimal
	ExpenseDate    time.Time
	Note           string
	IsRecurring    bool
	RecurrenceUnit RecurrenceUnit
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// NewExpense creates a new Expense entity.
func NewExpense(
	userID uuid.UUID,
	categoryID *uuid.UUID,
	amount decimal.Decimal,
	expenseDate time.Time,
	note string,
	isRecurring bool,
	recurrenceUnit RecurrenceUnit,
) *Expense {
	now := time.Now().UTC()

	return &Expense{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     categoryID,
		Amount:         amount.Round(2),
		ExpenseDate:    TruncateToDay(expenseDate),
		Note:           note,
		IsRecurring:    isRecurring,
		RecurrenceUnit: recurrenceUnit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Bucket returns the budget bucket this expense counts towards.
func (e *Expense) Bucket() BudgetBucket {
	return BucketFor(e.UserID, e.CategoryID, e.ExpenseDate)
}

// ExpenseListResult represents a page of expenses.
type ExpenseListResult struct {
	Expenses   []*Expense
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TruncateToDay drops the time of day, keeping the calendar date in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
