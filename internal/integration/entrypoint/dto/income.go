package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/income"
)

// CreateIncomeRequest represents the request body for income creation.
type CreateIncomeRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	IncomeDate     string          `json:"income_date" binding:"required"`
	CategoryID     *string         `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Note           string          `json:"note,omitempty" binding:"omitempty,max=500"`
	IsRecurring    bool            `json:"is_recurring,omitempty"`
	RecurrenceUnit string          `json:"recurrence_unit,omitempty" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

// UpdateIncomeRequest represents the request body for income update.
type UpdateIncomeRequest struct {
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	IncomeDate     *string          `json:"income_date,omitempty"`
	CategoryID     *string          `json:"category_id,omitempty" binding:"omitempty,uuid"`
	ClearCategory  bool             `json:"clear_category,omitempty"`
	Note           *string          `json:"note,omitempty" binding:"omitempty,max=500"`
	IsRecurring    *bool            `json:"is_recurring,omitempty"`
	RecurrenceUnit *string          `json:"recurrence_unit,omitempty" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

// IncomeResponse represents a single income in API responses.
type IncomeResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CategoryID     *string   `json:"category_id"`
	Amount         string    `json:"amount"`
	IncomeDate     string    `json:"income_date"`
	Note           string    `json:"note"`
	IsRecurring    bool      `json:"is_recurring"`
	RecurrenceUnit string    `json:"recurrence_unit,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IncomeListResponse represents the response for listing incomes.
type IncomeListResponse struct {
	Incomes    []IncomeResponse   `json:"incomes"`
	Pagination PaginationResponse `json:"pagination"`
}

// ToIncomeResponse converts an IncomeOutput to an IncomeResponse DTO.
func ToIncomeResponse(i *income.IncomeOutput) IncomeResponse {
	return IncomeResponse{
		ID:             i.ID.String(),
		UserID:         i.UserID.String(),
		CategoryID:     uuidString(i.CategoryID),
		Amount:         i.Amount.StringFixed(2),
		IncomeDate:     FormatDate(i.IncomeDate),
		Note:           i.Note,
		IsRecurring:    i.IsRecurring,
		RecurrenceUnit: string(i.RecurrenceUnit),
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// ToIncomeListResponse converts a ListIncomesOutput to an IncomeListResponse DTO.
func ToIncomeListResponse(output *income.ListIncomesOutput) IncomeListResponse {
	incomes := make([]IncomeResponse, 0, len(output.Incomes))
	for _, i := range output.Incomes {
		incomes = append(incomes, ToIncomeResponse(i))
	}

	return IncomeListResponse{
		Incomes: incomes,
		Pagination: PaginationResponse{
			Page:       output.Page,
			Limit:      output.Limit,
			Total:      output.Total,
			TotalPages: output.TotalPages,
		},
	}
}
