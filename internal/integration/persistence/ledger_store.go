package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// ledgerStore implements the adapter.LedgerStore interface with aggregate SQL.
// Sums are rounded to 2 places since sqlite returns them as floats.
type ledgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a new ledger store instance.
func NewLedgerStore(db *gorm.DB) adapter.LedgerStore {
	return &ledgerStore{
		db: db,
	}
}

type ledgerTable struct {
	name       string
	dateColumn string
}

var (
	expensesTable = ledgerTable{name: "expenses", dateColumn: "expense_date"}
	incomesTable  = ledgerTable{name: "incomes", dateColumn: "income_date"}
)

// SumAndCountExpense totals the expenses of a window.
func (s *ledgerStore) SumAndCountExpense(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, start, end time.Time) (entity.AmountSummary, error) {
	return s.sumAndCount(ctx, expensesTable, userID, categoryID, start, end)
}

// SumAndCountIncome totals the incomes of a window.
func (s *ledgerStore) SumAndCountIncome(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, start, end time.Time) (entity.AmountSummary, error) {
	return s.sumAndCount(ctx, incomesTable, userID, categoryID, start, end)
}

func (s *ledgerStore) sumAndCount(
	ctx context.Context,
	table ledgerTable,
	userID uuid.UUID,
	categoryID *uuid.UUID,
	start, end time.Time,
) (entity.AmountSummary, error) {
	var result struct {
		Total decimal.Decimal `gorm:"column:total"`
		Count int64           `gorm:"column:count"`
	}

	query := dbFromContext(ctx, s.db).
		Table(table.name).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Where("deleted_at IS NULL").
		Scopes(dayWindow(table.dateColumn, &start, &end))
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	if err := query.Scan(&result).Error; err != nil {
		return entity.AmountSummary{}, fmt.Errorf("failed to sum %s: %w", table.name, err)
	}

	return entity.AmountSummary{Total: result.Total.Round(2), Count: result.Count}, nil
}

// SumExpenseForBucket sums the expenses of one budget bucket.
func (s *ledgerStore) SumExpenseForBucket(ctx context.Context, bucket entity.BudgetBucket) (decimal.Decimal, error) {
	start, next := bucket.MonthRange()

	query := dbFromContext(ctx, s.db).
		Table(expensesTable.name).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", bucket.UserID).
		Where("deleted_at IS NULL").
		Where("expense_date >= ? AND expense_date < ?", start, next)
	if bucket.CategoryID == nil {
		query = query.Where("category_id IS NULL")
	} else {
		query = query.Where("category_id = ?", *bucket.CategoryID)
	}

	var result struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum bucket %s: %w", bucket, err)
	}
	return result.Total.Round(2), nil
}

// GroupExpenseByCategory groups a window's expenses by category, largest first.
func (s *ledgerStore) GroupExpenseByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.CategoryAggregate, error) {
	var results []struct {
		CategoryID    *uuid.UUID      `gorm:"column:category_id"`
		CategoryName  *string         `gorm:"column:category_name"`
		CategoryIcon  *string         `gorm:"column:category_icon"`
		CategoryColor *string         `gorm:"column:category_color"`
		Total         decimal.Decimal `gorm:"column:total"`
		Count         int64           `gorm:"column:count"`
	}

	query := `
		SELECT
			e.category_id,
			c.name as category_name,
			c.icon as category_icon,
			c.color as category_color,
			COALESCE(SUM(e.amount), 0) as total,
			COUNT(*) as count
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ?
			AND e.expense_date >= ?
			AND e.expense_date < ?
			AND e.deleted_at IS NULL
		GROUP BY e.category_id, c.name, c.icon, c.color
		ORDER BY total DESC
	`

	err := dbFromContext(ctx, s.db).
		Raw(query, userID, start, end.AddDate(0, 0, 1)).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group expenses by category: %w", err)
	}

	groups := make([]entity.CategoryAggregate, len(results))
	for i, res := range results {
		categoryID := res.CategoryID
		if categoryID != nil && *categoryID == uuid.Nil {
			categoryID = nil
		}
		groups[i] = entity.CategoryAggregate{
			CategoryID: categoryID,
			Name:       derefString(res.CategoryName),
			Icon:       derefString(res.CategoryIcon),
			Color:      derefString(res.CategoryColor),
			Total:      res.Total.Round(2),
			Count:      res.Count,
		}
	}
	return groups, nil
}

// GroupExpenseByPeriod groups a window's expenses by period, oldest first.
func (s *ledgerStore) GroupExpenseByPeriod(ctx context.Context, userID uuid.UUID, granularity entity.Granularity, start, end time.Time) ([]entity.PeriodAggregate, error) {
	return s.groupByPeriod(ctx, expensesTable, userID, granularity, start, end)
}

// GroupIncomeByPeriod groups a window's incomes by period, oldest first.
func (s *ledgerStore) GroupIncomeByPeriod(ctx context.Context, userID uuid.UUID, granularity entity.Granularity, start, end time.Time) ([]entity.PeriodAggregate, error) {
	return s.groupByPeriod(ctx, incomesTable, userID, granularity, start, end)
}

func (s *ledgerStore) groupByPeriod(
	ctx context.Context,
	table ledgerTable,
	userID uuid.UUID,
	granularity entity.Granularity,
	start, end time.Time,
) ([]entity.PeriodAggregate, error) {
	yearExpr, periodExpr := periodExpressions(s.db.Dialector.Name(), table.dateColumn, granularity)

	groupBy := yearExpr
	if periodExpr != "0" {
		groupBy += ", " + periodExpr
	}

	var results []struct {
		Year   int             `gorm:"column:year"`
		Period int             `gorm:"column:period"`
		Total  decimal.Decimal `gorm:"column:total"`
		Count  int64           `gorm:"column:count"`
	}

	query := fmt.Sprintf(`
		SELECT
			%s as year,
			%s as period,
			COALESCE(SUM(amount), 0) as total,
			COUNT(*) as count
		FROM %s
		WHERE user_id = ?
			AND %s >= ?
			AND %s < ?
			AND deleted_at IS NULL
		GROUP BY %s
		ORDER BY year ASC, period ASC
	`, yearExpr, periodExpr, table.name, table.dateColumn, table.dateColumn, groupBy)

	err := dbFromContext(ctx, s.db).
		Raw(query, userID, start, end.AddDate(0, 0, 1)).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group %s by period: %w", table.name, err)
	}

	periods := make([]entity.PeriodAggregate, len(results))
	for i, res := range results {
		periods[i] = entity.PeriodAggregate{
			Year:   res.Year,
			Period: res.Period,
			Total:  res.Total.Round(2),
			Count:  res.Count,
		}
	}
	return periods, nil
}

// periodExpressions returns the SQL for the year and the period number of column.
// The period is the literal 0 for yearly grouping.
func periodExpressions(dialect, column string, granularity entity.Granularity) (year, period string) {
	if dialect == "sqlite" {
		year = fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", column)
		month := fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", column)
		switch granularity {
		case entity.GranularityMonthly:
			return year, month
		case entity.GranularityQuarterly:
			return year, fmt.Sprintf("((%s + 2) / 3)", month)
		default:
			return year, "0"
		}
	}

	year = fmt.Sprintf("CAST(EXTRACT(YEAR FROM %s) AS INTEGER)", column)
	switch granularity {
	case entity.GranularityMonthly:
		return year, fmt.Sprintf("CAST(EXTRACT(MONTH FROM %s) AS INTEGER)", column)
	case entity.GranularityQuarterly:
		return year, fmt.Sprintf("CAST(EXTRACT(QUARTER FROM %s) AS INTEGER)", column)
	default:
		return year, "0"
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
