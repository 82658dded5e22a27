package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// bucketScope restricts a query to the active budget of a bucket.
func bucketScope(bucket entity.BudgetBucket) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ? AND year = ? AND month = ? AND active = ?", bucket.UserID, bucket.Year, bucket.Month, true)
		if bucket.CategoryID == nil {
			return db.Where("category_id IS NULL")
		}
		return db.Where("category_id = ?", *bucket.CategoryID)
	}
}

// Create inserts a budget unless its bucket already has an active one. The
// count gives the common case a clean error; the unique index on active
// buckets settles concurrent creates that both pass it.
func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	db := dbFromContext(ctx, r.db)

	var count int64
	if err := db.Model(&model.BudgetModel{}).Scopes(bucketScope(budget.Bucket())).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domainerror.ErrBudgetAlreadyExists
	}

	result := db.Create(model.BudgetFromEntity(budget))
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerror.ErrBudgetAlreadyExists
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves a budget by its ID.
func (r *budgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := dbFromContext(ctx, r.db).Where("id = ?", id).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// FindByBucket retrieves the active budget for a bucket.
func (r *budgetRepository) FindByBucket(ctx context.Context, bucket entity.BudgetBucket) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := dbFromContext(ctx, r.db).Scopes(bucketScope(bucket)).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// Save is a compare-and-swap on the version column.
func (r *budgetRepository) Save(ctx context.Context, budget *entity.Budget, expectedVersion int64) error {
	db := dbFromContext(ctx, r.db)
	now := time.Now().UTC()

	result := db.Model(&model.BudgetModel{}).
		Where("id = ? AND version = ?", budget.ID, expectedVersion).
		Updates(map[string]interface{}{
			"amount_limit":    budget.AmountLimit,
			"spent_amount":    budget.SpentAmount,
			"alert_threshold": budget.AlertThreshold,
			"is_alert_sent":   budget.IsAlertSent,
			"active":          budget.Active,
			"updated_at":      now,
			"version":         gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&model.BudgetModel{}).Where("id = ?", budget.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerror.ErrBudgetNotFound
		}
		return domainerror.ErrBudgetVersionConflict
	}

	budget.Version = expectedVersion + 1
	budget.UpdatedAt = now
	return nil
}

// List returns the budgets of a user ordered by period.
func (r *budgetRepository) List(ctx context.Context, filter adapter.BudgetFilter) ([]*entity.Budget, error) {
	query := dbFromContext(ctx, r.db).Where("user_id = ?", filter.UserID)
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}

	var budgetModels []model.BudgetModel
	if err := query.Order("year ASC, month ASC, created_at ASC").Find(&budgetModels).Error; err != nil {
		return nil, err
	}

	budgets := make([]*entity.Budget, len(budgetModels))
	for i, bm := range budgetModels {
		budgets[i] = bm.ToEntity()
	}
	return budgets, nil
}
