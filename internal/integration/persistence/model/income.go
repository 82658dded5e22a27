package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// IncomeModel represents the incomes table in the database.
type IncomeModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_incomes_user_date"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IncomeDate     time.Time       `gorm:"type:date;not null;index:idx_incomes_user_date"`
	Note           string          `gorm:"type:varchar(500)"`
	IsRecurring    bool            `gorm:"default:false"`
	RecurrenceUnit string          `gorm:"type:varchar(10)"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for the IncomeModel.
func (IncomeModel) TableName() string {
	return "incomes"
}

// ToEntity converts an IncomeModel to a domain Income entity.
func (m *IncomeModel) ToEntity() *entity.Income {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Income{
		ID:             m.ID,
		UserID:         m.UserID,
		CategoryID:     m.CategoryID,
		Amount:         m.Amount.Round(2),
		IncomeDate:     entity.TruncateToDay(m.IncomeDate),
		Note:           m.Note,
		IsRecurring:    m.IsRecurring,
		RecurrenceUnit: entity.RecurrenceUnit(m.RecurrenceUnit),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      deletedAt,
	}
}

// IncomeFromEntity creates an IncomeModel from a domain Income entity.
func IncomeFromEntity(income *entity.Income) *IncomeModel {
	var deletedAt gorm.DeletedAt
	if income.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *income.DeletedAt, Valid: true}
	}

	return &IncomeModel{
		ID:             income.ID,
		UserID:         income.UserID,
		CategoryID:     income.CategoryID,
		Amount:         income.Amount,
		IncomeDate:     income.IncomeDate,
		Note:           income.Note,
		IsRecurring:    income.IsRecurring,
		RecurrenceUnit: string(income.RecurrenceUnit),
		CreatedAt:      income.CreatedAt,
		UpdatedAt:      income.UpdatedAt,
		DeletedAt:      deletedAt,
	}
}
