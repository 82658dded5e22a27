package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Granularity is the time-bucketing unit of a trend analysis.
type Granularity string

const (
	GranularityMonthly   Granularity = "MONTHLY"
	GranularityQuarterly Granularity = "QUARTERLY"
	GranularityYearly    Granularity = "YEARLY"
)

// IsValid reports whether the granularity is supported.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityMonthly, GranularityQuarterly, GranularityYearly:
		return true
	}
	return false
}

// AmountSummary is a total and a record count over some filter.
type AmountSummary struct {
	Total decimal.Decimal
	Count int64
}

// CategoryAggregate is one row of an expense group-by-category query.
type CategoryAggregate struct {
	CategoryID *uuid.UUID
	Name       string
	Icon       string
	Color      string
	Total      decimal.Decimal
	Count      int64
}

// PeriodAggregate is one row of a group-by-period query.
// Period is the month (1-12) or quarter (1-4); it is zero for yearly grouping.
type PeriodAggregate struct {
	Year   int
	Period int
	Total  decimal.Decimal
	Count  int64
}

// Key formats the period for display: YYYY-MM, YYYY-QN or YYYY.
func (p PeriodAggregate) Key(granularity Granularity) string {
	switch granularity {
	case GranularityMonthly:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Period)
	case GranularityQuarterly:
		return fmt.Sprintf("%04d-Q%d", p.Year, p.Period)
	default:
		return fmt.Sprintf("%04d", p.Year)
	}
}
