package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/expense"
)

// CreateExpenseRequest represents the request body for expense creation.
type CreateExpenseRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	ExpenseDate    string          `json:"expense_date" binding:"required"`
	CategoryID     *string         `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Note           string          `json:"note,omitempty" binding:"omitempty,max=500"`
	IsRecurring    bool            `json:"is_recurring,omitempty"`
	RecurrenceUnit string          `json:"recurrence_unit,omitempty" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

// UpdateExpenseRequest represents the request body for expense update.
type UpdateExpenseRequest struct {
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	ExpenseDate    *string          `json:"expense_date,omitempty"`
	CategoryID     *string          `json:"category_id,omitempty" binding:"omitempty,uuid"`
	ClearCategory  bool             `json:"clear_category,omitempty"`
	Note           *string          `json:"note,omitempty" binding:"omitempty,max=500"`
	IsRecurring    *bool            `json:"is_recurring,omitempty"`
	RecurrenceUnit *string          `json:"recurrence_unit,omitempty" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

// ExpenseResponse represents a single expense in API responses.
type ExpenseResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CategoryID     *string   `json:"category_id"`
	Amount         string    `json:"amount"`
	ExpenseDate    string    `json:"expense_date"`
	Note           string    `json:"note"`
	IsRecurring    bool      `json:"is_recurring"`
	RecurrenceUnit string    `json:"recurrence_unit,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ExpenseListResponse represents the response for listing expenses.
type ExpenseListResponse struct {
	Expenses   []ExpenseResponse  `json:"expenses"`
	Pagination PaginationResponse `json:"pagination"`
}

// ToExpenseResponse converts an ExpenseOutput to an ExpenseResponse DTO.
func ToExpenseResponse(e *expense.ExpenseOutput) ExpenseResponse {
	return ExpenseResponse{
		ID:             e.ID.String(),
		UserID:         e.UserID.String(),
		CategoryID:     uuidString(e.CategoryID),
		Amount:         e.Amount.StringFixed(2),
		ExpenseDate:    FormatDate(e.ExpenseDate),
		Note:           e.Note,
		IsRecurring:    e.IsRecurring,
		RecurrenceUnit: string(e.RecurrenceUnit),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ToExpenseListResponse converts a ListExpensesOutput to an ExpenseListResponse DTO.
func ToExpenseListResponse(output *expense.ListExpensesOutput) ExpenseListResponse {
	expenses := make([]ExpenseResponse, 0, len(output.Expenses))
	for _, e := range output.Expenses {
		expenses = append(expenses, ToExpenseResponse(e))
	}

	return ExpenseListResponse{
		Expenses: expenses,
		Pagination: PaginationResponse{
			Page:       output.Page,
			Limit:      output.Limit,
			Total:      output.Total,
			TotalPages: output.TotalPages,
		},
	}
}
