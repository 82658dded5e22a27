package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// ExpenseModel represents the expenses table in the database.
type ExpenseModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_expenses_user_date"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ExpenseDate    time.Time       `gorm:"type:date;not null;index:idx_expenses_user_date"`
	Note           string          `gorm:"type:varchar(500)"`
	IsRecurring    bool            `gorm:"default:false"`
	RecurrenceUnit string          `gorm:"type:varchar(10)"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Expense{
		ID:             m.ID,
		UserID:         m.UserID,
		CategoryID:     m.CategoryID,
		Amount:         m.Amount.Round(2),
		ExpenseDate:    entity.TruncateToDay(m.ExpenseDate),
		Note:           m.Note,
		IsRecurring:    m.IsRecurring,
		RecurrenceUnit: entity.RecurrenceUnit(m.RecurrenceUnit),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      deletedAt,
	}
}

// ExpenseFromEntity creates an ExpenseModel from a domain Expense entity.
func ExpenseFromEntity(expense *entity.Expense) *ExpenseModel {
	var deletedAt gorm.DeletedAt
	if expense.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *expense.DeletedAt, Valid: true}
	}

	return &ExpenseModel{
		ID:             expense.ID,
		UserID:         expense.UserID,
		CategoryID:     expense.CategoryID,
		Amount:         expense.Amount,
		ExpenseDate:    expense.ExpenseDate,
		Note:           expense.Note,
		IsRecurring:    expense.IsRecurring,
		RecurrenceUnit: string(expense.RecurrenceUnit),
		CreatedAt:      expense.CreatedAt,
		UpdatedAt:      expense.UpdatedAt,
		DeletedAt:      deletedAt,
	}
}
