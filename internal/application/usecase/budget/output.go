package budget

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetOutput is a budget together with its derived values.
type BudgetOutput struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	Year            int
	Month           int
	AmountLimit     decimal.Decimal
	SpentAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	UsagePercentage decimal.Decimal
	AlertThreshold  int
	IsOverBudget    bool
	IsAlertSent     bool
	Active          bool
	Version         int64
}

// NewBudgetOutput snapshots a budget.
func NewBudgetOutput(b *entity.Budget) *BudgetOutput {
	return &BudgetOutput{
		ID:              b.ID,
		UserID:          b.UserID,
		CategoryID:      b.CategoryID,
		Year:            b.Year,
		Month:           b.Month,
		AmountLimit:     b.AmountLimit,
		SpentAmount:     b.SpentAmount,
		RemainingAmount: b.RemainingAmount(),
		UsagePercentage: b.UsagePercentage(),
		AlertThreshold:  b.AlertThreshold,
		IsOverBudget:    b.IsOverBudget(),
		IsAlertSent:     b.IsAlertSent,
		Active:          b.Active,
		Version:         b.Version,
	}
}
