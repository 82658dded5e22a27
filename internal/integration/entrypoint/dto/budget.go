package dto

import (
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
)

// CreateBudgetRequest represents the request body for budget creation.
// Omitting category_id creates the budget for uncategorized expenses.
type CreateBudgetRequest struct {
	CategoryID     *string         `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Year           int             `json:"year" binding:"required,min=1970,max=9999"`
	Month          int             `json:"month" binding:"required,min=1,max=12"`
	AmountLimit    decimal.Decimal `json:"amount_limit"`
	AlertThreshold *int            `json:"alert_threshold,omitempty" binding:"omitempty,min=0,max=100"`
}

// UpdateBudgetRequest represents the request body for budget update.
type UpdateBudgetRequest struct {
	AmountLimit    *decimal.Decimal `json:"amount_limit,omitempty"`
	AlertThreshold *int             `json:"alert_threshold,omitempty" binding:"omitempty,min=0,max=100"`
}

// ResyncBudgetRequest represents the request body for an explicit budget resync.
type ResyncBudgetRequest struct {
	CategoryID *string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Date       string  `json:"date" binding:"required"`
}

// ListBudgetsQuery represents the query parameters for listing budgets.
type ListBudgetsQuery struct {
	Year  *int `form:"year" binding:"omitempty,min=1970,max=9999"`
	Month *int `form:"month" binding:"omitempty,min=1,max=12"`
}

// BudgetResponse represents a single budget in API responses.
type BudgetResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	CategoryID      *string `json:"category_id"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	AmountLimit     string  `json:"amount_limit"`
	SpentAmount     string  `json:"spent_amount"`
	RemainingAmount string  `json:"remaining_amount"`
	UsagePercentage string  `json:"usage_percentage"`
	AlertThreshold  int     `json:"alert_threshold"`
	IsOverBudget    bool    `json:"is_over_budget"`
	IsAlertSent     bool    `json:"is_alert_sent"`
	Active          bool    `json:"active"`
	Version         int64   `json:"version"`
}

// BudgetListResponse represents the response for listing budgets.
type BudgetListResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ResyncBudgetResponse represents the response of an explicit resync.
// Budget is nil when no active budget covers the bucket.
type ResyncBudgetResponse struct {
	Synced bool            `json:"synced"`
	Budget *BudgetResponse `json:"budget"`
}

// ToBudgetResponse converts a BudgetOutput to a BudgetResponse DTO.
func ToBudgetResponse(b *budget.BudgetOutput) BudgetResponse {
	return BudgetResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID.String(),
		CategoryID:      uuidString(b.CategoryID),
		Year:            b.Year,
		Month:           b.Month,
		AmountLimit:     b.AmountLimit.StringFixed(2),
		SpentAmount:     b.SpentAmount.StringFixed(2),
		RemainingAmount: b.RemainingAmount.StringFixed(2),
		UsagePercentage: b.UsagePercentage.StringFixed(2),
		AlertThreshold:  b.AlertThreshold,
		IsOverBudget:    b.IsOverBudget,
		IsAlertSent:     b.IsAlertSent,
		Active:          b.Active,
		Version:         b.Version,
	}
}

// ToBudgetListResponse converts budget outputs to a BudgetListResponse DTO.
func ToBudgetListResponse(budgets []*budget.BudgetOutput) BudgetListResponse {
	response := BudgetListResponse{Budgets: make([]BudgetResponse, 0, len(budgets))}
	for _, b := range budgets {
		response.Budgets = append(response.Budgets, ToBudgetResponse(b))
	}
	return response
}
