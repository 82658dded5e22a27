package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database.
// Version is compared and incremented on every write.
type BudgetModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_bucket"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index:idx_budgets_bucket"`
	Year           int             `gorm:"not null;index:idx_budgets_bucket"`
	Month          int             `gorm:"not null;index:idx_budgets_bucket"`
	AmountLimit    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SpentAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	AlertThreshold int             `gorm:"not null;default:80"`
	IsAlertSent    bool            `gorm:"not null;default:false"`
	Active         bool            `gorm:"not null;default:true;index"`
	Version        int64           `gorm:"not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// BudgetActiveBucketIndex keeps at most one active budget per bucket. A null
// category is folded to the nil UUID so overall budgets collide with each other.
const BudgetActiveBucketIndex = "idx_budgets_active_bucket"

// Indexes returns the unique partial index over active buckets.
func (BudgetModel) Indexes() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS " + BudgetActiveBucketIndex +
			" ON budgets (user_id, COALESCE(category_id, '00000000-0000-0000-0000-000000000000'), year, month)" +
			" WHERE active",
	}
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:             m.ID,
		UserID:         m.UserID,
		CategoryID:     m.CategoryID,
		Year:           m.Year,
		Month:          m.Month,
		AmountLimit:    m.AmountLimit.Round(2),
		SpentAmount:    m.SpentAmount.Round(2),
		AlertThreshold: m.AlertThreshold,
		IsAlertSent:    m.IsAlertSent,
		Active:         m.Active,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(budget *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:             budget.ID,
		UserID:         budget.UserID,
		CategoryID:     budget.CategoryID,
		Year:           budget.Year,
		Month:          budget.Month,
		AmountLimit:    budget.AmountLimit,
		SpentAmount:    budget.SpentAmount,
		AlertThreshold: budget.AlertThreshold,
		IsAlertSent:    budget.IsAlertSent,
		Active:         budget.Active,
		Version:        budget.Version,
		CreatedAt:      budget.CreatedAt,
		UpdatedAt:      budget.UpdatedAt,
	}
}
