package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CategoryRepository reads categories referenced by ledger records and seeds
// the global ones.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// EnsureGlobal inserts each global category that has no global
	// counterpart with the same name and type yet. It returns how many were
	// inserted; running it twice inserts nothing the second time.
	EnsureGlobal(ctx context.Context, categories []*entity.Category) (int, error)
}
