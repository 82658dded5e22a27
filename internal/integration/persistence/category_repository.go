package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var m model.CategoryModel
	if err := dbFromContext(ctx, r.db).Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// EnsureGlobal compares against existing global rows by name and type, so
// seeded ids never change once written.
func (r *categoryRepository) EnsureGlobal(ctx context.Context, categories []*entity.Category) (int, error) {
	for _, c := range categories {
		if !c.IsGlobal() {
			return 0, fmt.Errorf("category %q is owned by a user", c.Name)
		}
	}

	inserted := 0
	err := dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var existing []model.CategoryModel
		if err := tx.Where("owner_id IS NULL").Find(&existing).Error; err != nil {
			return err
		}

		seen := make(map[string]bool, len(existing))
		for i := range existing {
			seen[existing[i].ToEntity().GlobalKey()] = true
		}

		for _, c := range categories {
			if seen[c.GlobalKey()] {
				continue
			}
			if err := tx.Create(model.CategoryFromEntity(c)).Error; err != nil {
				return fmt.Errorf("failed to insert category %q: %w", c.Name, err)
			}
			seen[c.GlobalKey()] = true
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
