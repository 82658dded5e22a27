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

// incomeRepository implements the adapter.IncomeRepository interface.
type incomeRepository struct {
	db *gorm.DB
}

// NewIncomeRepository creates a new income repository instance.
func NewIncomeRepository(db *gorm.DB) adapter.IncomeRepository {
	return &incomeRepository{
		db: db,
	}
}

// Create creates a new income in the database.
func (r *incomeRepository) Create(ctx context.Context, income *entity.Income) error {
	result := dbFromContext(ctx, r.db).Create(model.IncomeFromEntity(income))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a non-deleted income by its ID.
func (r *incomeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Income, error) {
	var incomeModel model.IncomeModel
	result := dbFromContext(ctx, r.db).Where("id = ?", id).First(&incomeModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrIncomeNotFound
		}
		return nil, result.Error
	}
	return incomeModel.ToEntity(), nil
}

// Update saves every column of the income.
func (r *incomeRepository) Update(ctx context.Context, income *entity.Income) error {
	result := dbFromContext(ctx, r.db).Save(model.IncomeFromEntity(income))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete soft-deletes an income.
func (r *incomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&model.IncomeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrIncomeNotFound
	}
	return nil
}

// List returns one page of incomes, newest first.
func (r *incomeRepository) List(ctx context.Context, filter adapter.LedgerFilter, pagination adapter.Pagination) (*entity.IncomeListResult, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	if err := db.Model(&model.IncomeModel{}).Scopes(ledgerFilter("income_date", filter)).Count(&total).Error; err != nil {
		return nil, err
	}

	var incomeModels []model.IncomeModel
	err := db.Scopes(ledgerFilter("income_date", filter), paginate(pagination)).
		Order("income_date DESC, created_at DESC").
		Find(&incomeModels).Error
	if err != nil {
		return nil, err
	}

	incomes := make([]*entity.Income, len(incomeModels))
	for i, im := range incomeModels {
		im := im
		incomes[i] = im.ToEntity()
	}

	return &entity.IncomeListResult{
		Incomes:    incomes,
		Total:      total,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages(total, pagination.Limit),
	}, nil
}
