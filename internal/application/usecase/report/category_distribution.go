package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// CategoryShare is one category's part of the expense total.
type CategoryShare struct {
	CategoryID *uuid.UUID      `json:"category_id"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int64           `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CategoryDistributionOutput groups a window's expenses by category.
type CategoryDistributionOutput struct {
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Categories   []CategoryShare `json:"categories"`
}

// GetCategoryDistributionUseCase builds the category distribution.
type GetCategoryDistributionUseCase struct {
	ledger adapter.LedgerStore
	cache  adapter.ReportCache
}

// NewGetCategoryDistributionUseCase creates a new GetCategoryDistributionUseCase instance. cache may be nil.
func NewGetCategoryDistributionUseCase(ledger adapter.LedgerStore, cache adapter.ReportCache) *GetCategoryDistributionUseCase {
	return &GetCategoryDistributionUseCase{ledger: ledger, cache: cache}
}

// Execute builds the distribution. Uncategorized expenses form a group with a nil CategoryID.
func (uc *GetCategoryDistributionUseCase) Execute(ctx context.Context, input DateRange) (*CategoryDistributionOutput, error) {
	r, err := validateRange(input)
	if err != nil {
		return nil, err
	}

	return cached(ctx, uc.cache, r.UserID, cacheKey("category-distribution", r), func(ctx context.Context) (*CategoryDistributionOutput, error) {
		groups, err := uc.ledger.GroupExpenseByCategory(ctx, r.UserID, r.StartDate, r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to group expenses by category: %w", err)
		}

		total := decimal.Zero
		for _, g := range groups {
			total = total.Add(g.Total)
		}

		shares := make([]CategoryShare, 0, len(groups))
		for _, g := range groups {
			shares = append(shares, CategoryShare{
				CategoryID: g.CategoryID,
				Name:       g.Name,
				Icon:       g.Icon,
				Color:      g.Color,
				Amount:     g.Total,
				Count:      g.Count,
				Percentage: percentageOf(g.Total, total),
			})
		}

		return &CategoryDistributionOutput{
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			TotalExpense: total,
			Categories:   shares,
		}, nil
	})
}
