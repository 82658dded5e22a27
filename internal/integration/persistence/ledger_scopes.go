package persistence

import (
	"time"

	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// dayWindow restricts column to the calendar days [start, end].
func dayWindow(column string, start, end *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where(column+" >= ?", *start)
		}
		if end != nil {
			db = db.Where(column+" < ?", end.AddDate(0, 0, 1))
		}
		return db
	}
}

// ledgerFilter applies the list filter shared by expenses and incomes.
func ledgerFilter(dateColumn string, filter adapter.LedgerFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", filter.UserID).Scopes(dayWindow(dateColumn, filter.StartDate, filter.EndDate))
		if filter.CategoryID != nil {
			db = db.Where("category_id = ?", *filter.CategoryID)
		}
		return db
	}
}

func paginate(p adapter.Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
