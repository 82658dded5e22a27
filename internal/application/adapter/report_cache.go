package adapter

import (
	"context"

	"github.com/google/uuid"
)

// ReportCache memoizes report results per user.
// Invalidate makes every cached report of the user unreachable.
type ReportCache interface {
	// Get loads a cached value into dest. It returns false on a miss, along with
	// the generation the lookup resolved so a later Set lands in the same one.
	Get(ctx context.Context, userID uuid.UUID, key string, dest any) (int64, bool, error)

	// Set stores value under key for the given generation. Values written for a
	// generation that has since been invalidated are never served.
	Set(ctx context.Context, userID uuid.UUID, generation int64, key string, value any) error

	// Invalidate drops every cached report of the user.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
