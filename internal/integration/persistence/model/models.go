package model

import (
	"fmt"

	"gorm.io/gorm"
)

// All returns every model managed by auto-migration, parents first.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&CategoryModel{},
		&ExpenseModel{},
		&IncomeModel{},
		&BudgetModel{},
		&EmailJobModel{},
	}
}

// Indexer is implemented by models that need indexes gorm tags cannot express,
// such as partial or expression indexes.
type Indexer interface {
	Indexes() []string
}

// CreateIndexes runs the index statements of every model implementing Indexer.
// Statements must be idempotent; they run after every auto-migration.
func CreateIndexes(db *gorm.DB, models ...interface{}) error {
	for _, m := range models {
		indexer, ok := m.(Indexer)
		if !ok {
			continue
		}
		for _, stmt := range indexer.Indexes() {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create index for %T: %w", m, err)
			}
		}
	}
	return nil
}
