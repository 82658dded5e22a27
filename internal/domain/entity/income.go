package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Income represents money received by a user.
type Income struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Amount         decimal.Decimal
	IncomeDate     time.Time
	Note           string
	IsRecurring    bool
	RecurrenceUnit RecurrenceUnit
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// NewIncome creates a new Income entity.
func NewIncome(
	userID uuid.UUID,
	categoryID *uuid.UUID,
	amount decimal.Decimal,
	incomeDate time.Time,
	note string,
	isRecurring bool,
	recurrenceUnit RecurrenceUnit,
) *Income {
	now := time.Now().UTC()

	return &Income{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     categoryID,
		Amount:         amount.Round(2),
		IncomeDate:     TruncateToDay(incomeDate),
		Note:           note,
		IsRecurring:    isRecurring,
		RecurrenceUnit: recurrenceUnit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IncomeListResult represents a page of incomes.
type IncomeListResult struct {
	Incomes    []*Income
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
