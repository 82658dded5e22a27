// Package income contains income-related use cases.
package income

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/validation"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// IncomeOutput is the view of an income returned by the use cases.
type IncomeOutput struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Amount         decimal.Decimal
	IncomeDate     time.Time
	Note           string
	IsRecurring    bool
	RecurrenceUnit entity.RecurrenceUnit
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewIncomeOutput snapshots an income.
func NewIncomeOutput(i *entity.Income) *IncomeOutput {
	return &IncomeOutput{
		ID:             i.ID,
		UserID:         i.UserID,
		CategoryID:     i.CategoryID,
		Amount:         i.Amount,
		IncomeDate:     i.IncomeDate,
		Note:           i.Note,
		IsRecurring:    i.IsRecurring,
		RecurrenceUnit: i.RecurrenceUnit,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func validateIncome(ctx context.Context, categoryRepo adapter.CategoryRepository, i *entity.Income, now time.Time) error {
	if err := validation.Amount(i.Amount); err != nil {
		return domainerror.NewIncomeError(domainerror.ErrCodeInvalidIncomeAmount, "amount must be at least 0.01", err)
	}
	if err := validation.OccurrenceDate(i.IncomeDate, now); err != nil {
		return domainerror.NewIncomeError(domainerror.ErrCodeInvalidIncomeDate, "income date must not be in the future", err)
	}
	if err := validation.Recurrence(i.IsRecurring, i.RecurrenceUnit); err != nil {
		return domainerror.NewIncomeError(domainerror.ErrCodeInvalidIncomeRecurrence, err.Error(), err)
	}
	if err := validation.Note(i.Note); err != nil {
		return domainerror.NewIncomeError(domainerror.ErrCodeIncomeNoteTooLong, "note must be at most 500 characters", err)
	}
	if _, err := validation.Category(ctx, categoryRepo, i.UserID, i.CategoryID, entity.CategoryTypeIncome); err != nil {
		if validation.IsCategoryError(err) {
			return domainerror.NewIncomeError(domainerror.ErrCodeIncomeCategoryInvalid, err.Error(), err)
		}
		return err
	}
	return nil
}

func findOwnedIncome(ctx context.Context, repo adapter.IncomeRepository, incomeID, userID uuid.UUID) (*entity.Income, error) {
	income, err := repo.FindByID(ctx, incomeID)
	if err != nil {
		if errors.Is(err, domainerror.ErrIncomeNotFound) {
			return nil, domainerror.NewIncomeError(
				domainerror.ErrCodeIncomeNotFound,
				"income not found",
				domainerror.ErrIncomeNotFound,
			)
		}
		return nil, err
	}

	if income.UserID != userID {
		return nil, domainerror.NewIncomeError(
			domainerror.ErrCodeNotAuthorizedIncome,
			"not authorized to modify this income",
			domainerror.ErrNotAuthorizedToModifyIncome,
		)
	}

	return income, nil
}

func invalidateReports(ctx context.Context, cache adapter.ReportCache, userID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, userID); err != nil {
		slog.Warn("failed to invalidate report cache", "user_id", userID, "error", err)
	}
}

// CreateIncomeInput represents the input for income creation.
type CreateIncomeInput struct {
	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Amount         decimal.Decimal
	IncomeDate     time.Time
	Note           string
	IsRecurring    bool
	RecurrenceUnit entity.RecurrenceUnit
}

// CreateIncomeUseCase records an income.
type CreateIncomeUseCase struct {
	incomeRepo   adapter.IncomeRepository
	categoryRepo adapter.CategoryRepository
	cache        adapter.ReportCache
	now          func() time.Time
}

// NewCreateIncomeUseCase creates a new CreateIncomeUseCase instance. cache may be nil.
func NewCreateIncomeUseCase(incomeRepo adapter.IncomeRepository, categoryRepo adapter.CategoryRepository, cache adapter.ReportCache) *CreateIncomeUseCase {
	return &CreateIncomeUseCase{
		incomeRepo:   incomeRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		now:          time.Now,
	}
}

// Execute performs the income creation.
func (uc *CreateIncomeUseCase) Execute(ctx context.Context, input CreateIncomeInput) (*IncomeOutput, error) {
	income := entity.NewIncome(
		input.UserID,
		input.CategoryID,
		input.Amount,
		input.IncomeDate,
		input.Note,
		input.IsRecurring,
		input.RecurrenceUnit,
	)

	if err := validateIncome(ctx, uc.categoryRepo, income, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.incomeRepo.Create(ctx, income); err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}

	invalidateReports(ctx, uc.cache, input.UserID)
	return NewIncomeOutput(income), nil
}

// UpdateIncomeInput represents the input for income update. Nil fields are left unchanged.
type UpdateIncomeInput struct {
	UserID         uuid.UUID
	IncomeID       uuid.UUID
	Amount         *decimal.Decimal
	IncomeDate     *time.Time
	CategoryID     *uuid.UUID
	ClearCategory  bool
	Note           *string
	IsRecurring    *bool
	RecurrenceUnit *entity.RecurrenceUnit
}

// UpdateIncomeUseCase edits an income.
type UpdateIncomeUseCase struct {
	incomeRepo   adapter.IncomeRepository
	categoryRepo adapter.CategoryRepository
	cache        adapter.ReportCache
	now          func() time.Time
}

// NewUpdateIncomeUseCase creates a new UpdateIncomeUseCase instance. cache may be nil.
func NewUpdateIncomeUseCase(incomeRepo adapter.IncomeRepository, categoryRepo adapter.CategoryRepository, cache adapter.ReportCache) *UpdateIncomeUseCase {
	return &UpdateIncomeUseCase{
		incomeRepo:   incomeRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		now:          time.Now,
	}
}

// Execute performs the income update.
func (uc *UpdateIncomeUseCase) Execute(ctx context.Context, input UpdateIncomeInput) (*IncomeOutput, error) {
	income, err := findOwnedIncome(ctx, uc.incomeRepo, input.IncomeID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		income.Amount = input.Amount.Round(2)
	}
	if input.IncomeDate != nil {
		income.IncomeDate = entity.TruncateToDay(*input.IncomeDate)
	}
	if input.ClearCategory {
		income.CategoryID = nil
	} else if input.CategoryID != nil {
		categoryID := *input.CategoryID
		income.CategoryID = &categoryID
	}
	if input.Note != nil {
		income.Note = *input.Note
	}
	if input.IsRecurring != nil {
		income.IsRecurring = *input.IsRecurring
		if !income.IsRecurring {
			income.RecurrenceUnit = ""
		}
	}
	if input.RecurrenceUnit != nil {
		income.RecurrenceUnit = *input.RecurrenceUnit
	}

	if err := validateIncome(ctx, uc.categoryRepo, income, uc.now()); err != nil {
		return nil, err
	}

	income.UpdatedAt = time.Now().UTC()
	if err := uc.incomeRepo.Update(ctx, income); err != nil {
		return nil, fmt.Errorf("failed to update income: %w", err)
	}

	invalidateReports(ctx, uc.cache, input.UserID)
	return NewIncomeOutput(income), nil
}

// DeleteIncomeInput represents the input for income deletion.
type DeleteIncomeInput struct {
	UserID   uuid.UUID
	IncomeID uuid.UUID
}

// DeleteIncomeUseCase soft-deletes an income.
type DeleteIncomeUseCase struct {
	incomeRepo adapter.IncomeRepository
	cache      adapter.ReportCache
}

// NewDeleteIncomeUseCase creates a new DeleteIncomeUseCase instance. cache may be nil.
func NewDeleteIncomeUseCase(incomeRepo adapter.IncomeRepository, cache adapter.ReportCache) *DeleteIncomeUseCase {
	return &DeleteIncomeUseCase{incomeRepo: incomeRepo, cache: cache}
}

// Execute performs the income deletion.
func (uc *DeleteIncomeUseCase) Execute(ctx context.Context, input DeleteIncomeInput) error {
	income, err := findOwnedIncome(ctx, uc.incomeRepo, input.IncomeID, input.UserID)
	if err != nil {
		return err
	}

	if err := uc.incomeRepo.Delete(ctx, income.ID); err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}

	invalidateReports(ctx, uc.cache, input.UserID)
	return nil
}

// GetIncomeInput represents the input for fetching an income.
type GetIncomeInput struct {
	UserID   uuid.UUID
	IncomeID uuid.UUID
}

// GetIncomeUseCase fetches one income of the user.
type GetIncomeUseCase struct {
	incomeRepo adapter.IncomeRepository
}

// NewGetIncomeUseCase creates a new GetIncomeUseCase instance.
func NewGetIncomeUseCase(incomeRepo adapter.IncomeRepository) *GetIncomeUseCase {
	return &GetIncomeUseCase{incomeRepo: incomeRepo}
}

// Execute fetches the income.
func (uc *GetIncomeUseCase) Execute(ctx context.Context, input GetIncomeInput) (*IncomeOutput, error) {
	income, err := findOwnedIncome(ctx, uc.incomeRepo, input.IncomeID, input.UserID)
	if err != nil {
		return nil, err
	}
	return NewIncomeOutput(income), nil
}

// ListIncomesInput represents the input for listing incomes.
type ListIncomesInput struct {
	UserID     uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uuid.UUID
	Page       int
	Limit      int
}

// ListIncomesOutput represents one page of incomes.
type ListIncomesOutput struct {
	Incomes    []*IncomeOutput
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListIncomesUseCase lists the incomes of a user, newest first.
type ListIncomesUseCase struct {
	incomeRepo adapter.IncomeRepository
}

// NewListIncomesUseCase creates a new ListIncomesUseCase instance.
func NewListIncomesUseCase(incomeRepo adapter.IncomeRepository) *ListIncomesUseCase {
	return &ListIncomesUseCase{incomeRepo: incomeRepo}
}

// Execute lists incomes.
func (uc *ListIncomesUseCase) Execute(ctx context.Context, input ListIncomesInput) (*ListIncomesOutput, error) {
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	result, err := uc.incomeRepo.List(ctx, adapter.LedgerFilter{
		UserID:     input.UserID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		CategoryID: input.CategoryID,
	}, adapter.Pagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}

	output := &ListIncomesOutput{
		Incomes:    make([]*IncomeOutput, 0, len(result.Incomes)),
		Total:      result.Total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(result.Total) / float64(limit))),
	}
	for _, i := range result.Incomes {
		output.Incomes = append(output.Incomes, NewIncomeOutput(i))
	}
	return output, nil
}
