package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// UpdateBudgetInput represents the input for budget update.
// Spent amount is not editable.
type UpdateBudgetInput struct {
	UserID         uuid.UUID
	BudgetID       uuid.UUID
	AmountLimit    *decimal.Decimal
	AlertThreshold *int
}

// UpdateBudgetOutput represents the output of budget update.
type UpdateBudgetOutput struct {
	Budget *BudgetOutput
}

// UpdateBudgetUseCase changes the limit or threshold of a budget.
type UpdateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	transactor adapter.Transactor
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(budgetRepo adapter.BudgetRepository, transactor adapter.Transactor) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{
		budgetRepo: budgetRepo,
		transactor: transactor,
	}
}

// Execute performs the update with a version check.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	var output *UpdateBudgetOutput

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		budget, err := findOwnedBudget(ctx, uc.budgetRepo, input.BudgetID, input.UserID)
		if err != nil {
			return err
		}

		if input.AmountLimit != nil {
			budget.AmountLimit = input.AmountLimit.Round(2)
		}
		if input.AlertThreshold != nil {
			budget.AlertThreshold = *input.AlertThreshold
		}
		if err := validateLimits(budget.AmountLimit, budget.AlertThreshold); err != nil {
			return err
		}

		budget.UpdatedAt = time.Now().UTC()
		if err := saveBudget(ctx, uc.budgetRepo, budget.Version, budget); err != nil {
			return err
		}

		output = &UpdateBudgetOutput{Budget: NewBudgetOutput(budget)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
