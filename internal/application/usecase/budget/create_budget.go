package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/validation"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// CreateBudgetInput represents the input for budget creation.
type CreateBudgetInput struct {
	UserID         uuid.UUID
	CategoryID     *uuid.UUID // nil creates the uncategorized budget
	Year           int
	Month          int
	AmountLimit    decimal.Decimal
	AlertThreshold *int // defaults to the configured threshold
}

// CreateBudgetOutput represents the output of budget creation.
type CreateBudgetOutput struct {
	Budget *BudgetOutput
}

// CreateBudgetUseCase handles budget creation.
type CreateBudgetUseCase struct {
	budgetRepo       adapter.BudgetRepository
	categoryRepo     adapter.CategoryRepository
	synchronizer     *Synchronizer
	transactor       adapter.Transactor
	defaultThreshold int
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	categoryRepo adapter.CategoryRepository,
	synchronizer *Synchronizer,
	transactor adapter.Transactor,
	defaultThreshold int,
) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{
		budgetRepo:       budgetRepo,
		categoryRepo:     categoryRepo,
		synchronizer:     synchronizer,
		transactor:       transactor,
		defaultThreshold: defaultThreshold,
	}
}

// Execute creates the budget and seeds its spent amount from existing expenses.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*CreateBudgetOutput, error) {
	threshold := uc.defaultThreshold
	if input.AlertThreshold != nil {
		threshold = *input.AlertThreshold
	}

	if err := validateBudgetFields(input.Year, input.Month, input.AmountLimit, threshold); err != nil {
		return nil, err
	}

	if _, err := validation.Category(ctx, uc.categoryRepo, input.UserID, input.CategoryID, entity.CategoryTypeExpense); err != nil {
		if validation.IsCategoryError(err) {
			return nil, domainerror.NewBudgetError(domainerror.ErrCodeBudgetCategoryInvalid, err.Error(), err)
		}
		return nil, err
	}

	budget := entity.NewBudget(input.UserID, input.CategoryID, input.Year, input.Month, input.AmountLimit, threshold)

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := uc.budgetRepo.FindByBucket(ctx, budget.Bucket())
		if err == nil {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetAlreadyExists,
				"an active budget already exists for this category and month",
				domainerror.ErrBudgetAlreadyExists,
			)
		}
		if !errors.Is(err, domainerror.ErrBudgetNotFound) {
			return fmt.Errorf("failed to check existing budget: %w", err)
		}

		if err := uc.budgetRepo.Create(ctx, budget); err != nil {
			if errors.Is(err, domainerror.ErrBudgetAlreadyExists) {
				return domainerror.NewBudgetError(
					domainerror.ErrCodeBudgetAlreadyExists,
					"an active budget already exists for this category and month",
					err,
				)
			}
			return fmt.Errorf("failed to create budget: %w", err)
		}

		synced, err := uc.synchronizer.ResyncBucket(ctx, budget.Bucket())
		if err != nil {
			return err
		}
		if synced != nil {
			budget = synced
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateBudgetOutput{Budget: NewBudgetOutput(budget)}, nil
}

func validateBudgetFields(year, month int, amountLimit decimal.Decimal, threshold int) error {
	if year < 1900 || year > 9999 || month < 1 || month > 12 {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetPeriod,
			"year must be 1900-9999 and month 1-12",
			domainerror.ErrInvalidBudgetPeriod,
		)
	}
	return validateLimits(amountLimit, threshold)
}

func validateLimits(amountLimit decimal.Decimal, threshold int) error {
	if !amountLimit.Round(2).IsPositive() {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetLimit,
			"amount limit must be greater than zero",
			domainerror.ErrInvalidBudgetLimit,
		)
	}
	if threshold < 0 || threshold > 100 {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidAlertThreshold,
			"alert threshold must be between 0 and 100",
			domainerror.ErrInvalidAlertThreshold,
		)
	}
	return nil
}
