// Package report contains the read-side aggregation use cases: reports over a
// date window, category distribution, income versus expense and trend analysis.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

const dateLayout = "2006-01-02"

// Period labels derived from the span of a date window.
const (
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
	PeriodCustom  = "custom"
)

var hundred = decimal.NewFromInt(100)

// DateRange is an inclusive window of calendar days.
type DateRange struct {
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// validateRange checks the window and normalizes both ends to midnight UTC.
func validateRange(r DateRange) (DateRange, error) {
	if r.StartDate.IsZero() {
		return r, domainerror.NewReportError(
			domainerror.ErrCodeMissingStartDate,
			"start_date is required",
			domainerror.ErrMissingStartDate,
		)
	}

	if r.EndDate.IsZero() {
		return r, domainerror.NewReportError(
			domainerror.ErrCodeMissingEndDate,
			"end_date is required",
			domainerror.ErrMissingEndDate,
		)
	}

	r.StartDate = entity.TruncateToDay(r.StartDate)
	r.EndDate = entity.TruncateToDay(r.EndDate)

	if r.EndDate.Before(r.StartDate) {
		return r, domainerror.NewReportError(
			domainerror.ErrCodeInvalidDateRange,
			"end_date must not be before start_date",
			domainerror.ErrInvalidDateRange,
		)
	}

	return r, nil
}

// PeriodLabel describes the span of a window. It plays no part in any calculation.
func PeriodLabel(start, end time.Time) string {
	days := int(entity.TruncateToDay(end).Sub(entity.TruncateToDay(start)).Hours() / 24)
	switch {
	case days <= 31:
		return PeriodMonth
	case days <= 92:
		return PeriodQuarter
	case days <= 366:
		return PeriodYear
	default:
		return PeriodCustom
	}
}

// average returns total/count rounded to 2 places, or zero when count is zero.
func average(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}

// percentageOf returns part/whole*100 with the ratio held at 4 decimals, or zero when whole is zero.
func percentageOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.DivRound(whole, 4).Mul(hundred)
}

func cacheKey(kind string, r DateRange, extra ...string) string {
	key := fmt.Sprintf("%s:%s:%s", kind, r.StartDate.Format(dateLayout), r.EndDate.Format(dateLayout))
	for _, e := range extra {
		key += ":" + e
	}
	return key
}

// cached serves a report from the cache when possible. Cache failures are logged and skipped.
func cached[T any](
	ctx context.Context,
	cache adapter.ReportCache,
	userID uuid.UUID,
	key string,
	compute func(ctx context.Context) (*T, error),
) (*T, error) {
	// store stays false when the lookup failed; the generation is unknown then.
	var (
		gen   int64
		store bool
	)
	if cache != nil {
		var hit T
		g, found, err := cache.Get(ctx, userID, key, &hit)
		switch {
		case err != nil:
			slog.Warn("report cache get failed", "user_id", userID, "key", key, "error", err)
		case found:
			return &hit, nil
		default:
			gen, store = g, true
		}
	}

	out, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if store {
		if err := cache.Set(ctx, userID, gen, key, out); err != nil {
			slog.Warn("report cache set failed", "user_id", userID, "key", key, "error", err)
		}
	}
	return out, nil
}
