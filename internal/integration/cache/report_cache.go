// Package cache implements the report cache on redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// reportCache stores JSON-encoded reports under a per-user generation.
// Bumping the generation makes every older key unreachable; those keys expire on their own.
type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new redis-backed report cache.
func NewReportCache(client *redis.Client, ttl time.Duration) adapter.ReportCache {
	return &reportCache{
		client: client,
		ttl:    ttl,
	}
}

func generationKey(userID uuid.UUID) string {
	return fmt.Sprintf("report:gen:%s", userID)
}

func (c *reportCache) generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func entryKey(userID uuid.UUID, gen int64, key string) string {
	return fmt.Sprintf("report:%s:%d:%s", userID, gen, key)
}

// Get loads a cached report into dest and reports the generation it looked in.
func (c *reportCache) Get(ctx context.Context, userID uuid.UUID, key string, dest any) (int64, bool, error) {
	gen, err := c.generation(ctx, userID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read report generation: %w", err)
	}

	raw, err := c.client.Get(ctx, entryKey(userID, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gen, false, nil
	}
	if err != nil {
		return gen, false, fmt.Errorf("failed to read cached report: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return gen, false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return gen, true, nil
}

// Set stores a report under the generation returned by the Get that missed.
// A report computed before an Invalidate lands in the retired generation and is never read.
func (c *reportCache) Set(ctx context.Context, userID uuid.UUID, gen int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return c.client.Set(ctx, entryKey(userID, gen, key), raw, c.ttl).Err()
}

// Invalidate bumps the user's generation.
func (c *reportCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Incr(ctx, generationKey(userID)).Err()
}
