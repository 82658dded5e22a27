package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetFilter defines filter options for listing budgets.
type BudgetFilter struct {
	UserID          uuid.UUID
	Year            *int
	Month           *int
	IncludeInactive bool
}

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// Create inserts a new budget. It fails with ErrBudgetAlreadyExists when an
	// active budget already covers the same bucket.
	Create(ctx context.Context, budget *entity.Budget) error

	// FindByID retrieves a budget by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// FindByBucket retrieves the active budget for a bucket.
	// A nil category matches only the uncategorized budget.
	FindByBucket(ctx context.Context, bucket entity.BudgetBucket) (*entity.Budget, error)

	// Save writes the budget only if its stored version still equals expectedVersion.
	// On success budget.Version is advanced; on mismatch ErrBudgetVersionConflict is returned.
	Save(ctx context.Context, budget *entity.Budget, expectedVersion int64) error

	// List returns budgets matching the filter ordered by year, month.
	List(ctx context.Context, filter BudgetFilter) ([]*entity.Budget, error)
}
