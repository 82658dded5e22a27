package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// DeleteBudgetInput represents the input for budget deletion.
type DeleteBudgetInput struct {
	UserID   uuid.UUID
	BudgetID uuid.UUID
}

// DeleteBudgetUseCase deactivates a budget. The row is kept.
type DeleteBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	transactor adapter.Transactor
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(budgetRepo adapter.BudgetRepository, transactor adapter.Transactor) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{
		budgetRepo: budgetRepo,
		transactor: transactor,
	}
}

// Execute performs the soft delete.
func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, input DeleteBudgetInput) error {
	return uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		budget, err := findOwnedBudget(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
		if err != nil {
			return err
		}

		budget.Active = false
		budget.UpdatedAt = time.Now().UTC()
		return saveBudget(ctx, uc.budgetRepo, budget.Version, budget)
	})
}

func saveBudget(ctx context.Context, repo adapter.BudgetRepository, expectedVersion int64, budget *entity.Budget) error {
	if err := repo.Save(ctx, budget, expectedVersion); err != nil {
		if errors.Is(err, domainerror.ErrBudgetVersionConflict) {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetVersionConflict,
				"budget was modified concurrently, retry the operation",
				err,
			)
		}
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}
