package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

// Create creates a new expense in the database.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	result := dbFromContext(ctx, r.db).Create(model.ExpenseFromEntity(expense))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a non-deleted expense by its ID.
func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expenseModel model.ExpenseModel
	result := dbFromContext(ctx, r.db).Where("id = ?", id).First(&expenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return expenseModel.ToEntity(), nil
}

// Update saves every column of the expense.
func (r *expenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	result := dbFromContext(ctx, r.db).Save(model.ExpenseFromEntity(expense))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete soft-deletes an expense.
func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&model.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrExpenseNotFound
	}
	return nil
}

// List returns one page of expenses, newest first.
func (r *expenseRepository) List(ctx context.Context, filter adapter.LedgerFilter, pagination adapter.Pagination) (*entity.ExpenseListResult, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&model.ExpenseModel{}).Scopes(ledgerFilter("expense_date", filter)).Count(&total).Error; err != nil {
		return nil, err
	}

	var expenseModels []model.ExpenseModel
	err := db.Scopes(ledgerFilter("expense_date", filter), paginate(pagination)).
		Order("expense_date DESC, created_at DESC").
		Find(&expenseModels).Error
	if err != nil {
		return nil, err
	}

	expenses := make([]*entity.Expense, len(expenseModels))
	for i, em := range expenseModels {
		em := em
		expenses[i] = em.ToEntity()
	}

	return &entity.ExpenseListResult{
		Expenses:   expenses,
		Total:      total,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages(total, pagination.Limit),
	}, nil
}
