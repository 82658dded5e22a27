package expense

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetExpenseInput represents the input for fetching an expense.
type GetExpenseInput struct {
	UserID    uuid.UUID
	ExpenseID uuid.UUID
}

// GetExpenseUseCase fetches one expense of the user.
type GetExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetExpenseUseCase creates a new GetExpenseUseCase instance.
func NewGetExpenseUseCase(expenseRepo adapter.ExpenseRepository) *GetExpenseUseCase {
	return &GetExpenseUseCase{expenseRepo: expenseRepo}
}

// Execute fetches the expense.
func (uc *GetExpenseUseCase) Execute(ctx context.Context, input GetExpenseInput) (*ExpenseOutput, error) {
	expense, err := findOwnedExpense(ctx, uc.expenseRepo, input.ExpenseID, input.UserID)
	if err != nil {
		return nil, err
	}
	return NewExpenseOutput(expense), nil
}

// ListExpensesInput represents the input for listing expenses.
type ListExpensesInput struct {
	UserID     uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uuid.UUID
	Page       int
	Limit      int
}

// ListExpensesOutput represents one page of expenses.
type ListExpensesOutput struct {
	Expenses   []*ExpenseOutput
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListExpensesUseCase lists the expenses of a user, newest first.
type ListExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(expenseRepo adapter.ExpenseRepository) *ListExpensesUseCase {
	return &ListExpensesUseCase{expenseRepo: expenseRepo}
}

// Execute lists expenses.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	page, limit := normalizePagination(input.Page, input.Limit)

	result, err := uc.expenseRepo.List(ctx, adapter.LedgerFilter{
		UserID:     input.UserID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		CategoryID: input.CategoryID,
	}, adapter.Pagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	output := &ListExpensesOutput{
		Expenses:   make([]*ExpenseOutput, 0, len(result.Expenses)),
		Total:      result.Total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(result.Total) / float64(limit))),
	}
	for _, e := range result.Expenses {
		output.Expenses = append(output.Expenses, NewExpenseOutput(e))
	}
	return output, nil
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
