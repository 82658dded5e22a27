package budget

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// ResyncBudgetInput identifies the bucket to recompute.
type ResyncBudgetInput struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	Date       time.Time
}

// ResyncBudgetOutput holds the recomputed budget, or nil when the bucket has none.
type ResyncBudgetOutput struct {
	Budget *BudgetOutput
}

// ResyncBudgetUseCase recomputes a budget on demand.
type ResyncBudgetUseCase struct {
	synchronizer *Synchronizer
	transactor   adapter.Transactor
}

// NewResyncBudgetUseCase creates a new ResyncBudgetUseCase instance.
func NewResyncBudgetUseCase(synchronizer *Synchronizer, transactor adapter.Transactor) *ResyncBudgetUseCase {
	return &ResyncBudgetUseCase{
		synchronizer: synchronizer,
		transactor:   transactor,
	}
}

// Execute performs the resync in its own transaction.
func (uc *ResyncBudgetUseCase) Execute(ctx context.Context, input ResyncBudgetInput) (*ResyncBudgetOutput, error) {
	output := &ResyncBudgetOutput{}

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		budget, err := uc.synchronizer.Resync(ctx, input.UserID, input.CategoryID, input.Date)
		if err != nil {
			return err
		}
		if budget != nil {
			output.Budget = NewBudgetOutput(budget)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}
