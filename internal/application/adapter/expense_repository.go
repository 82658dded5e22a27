package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// LedgerFilter defines filter options for listing expenses or incomes.
type LedgerFilter struct {
	UserID     uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uuid.UUID
}

// Pagination defines pagination options.
type Pagination struct {
	Page  int
	Limit int
}

// ExpenseRepository defines the interface for expense persistence operations.
type ExpenseRepository interface {
	// Create creates a new expense.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByID retrieves a non-deleted expense by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)

	// Update saves changes to an existing expense.
	Update(ctx context.Context, expense *entity.Expense) error

	// Delete soft-deletes an expense.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns expenses ordered by date descending.
	List(ctx context.Context, filter LedgerFilter, pagination Pagination) (*entity.ExpenseListResult, error)
}

// IncomeRepository defines the interface for income persistence operations.
type IncomeRepository interface {
	Create(ctx context.Context, income *entity.Income) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Income, error)
	Update(ctx context.Context, income *entity.Income) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter LedgerFilter, pagination Pagination) (*entity.IncomeListResult, error)
}
