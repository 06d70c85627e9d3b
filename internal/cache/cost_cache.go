// Package cache holds the injected memoization component for BOM cost
// resolution. It is deliberately an explicit dependency of the cost service —
// never an ambient singleton — so resolution stays testable and safe under
// concurrent request handling.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pricemaster/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CostCache memoizes finished cost calculations for a short TTL.
// Implementations must be safe for concurrent use.
type CostCache interface {
	Get(ctx context.Context, key string) (*dto.CostResponse, bool)
	Set(ctx context.Context, key string, resp *dto.CostResponse)
}

// Key builds the invalidation key for one calculation. Both flags participate
// so a labor-free result can never be served for a labor-inclusive request.
func Key(itemID uuid.UUID, asOf time.Time, includeLabor, includeOverhead bool) string {
	return fmt.Sprintf("cost:%s:%s:%t:%t", itemID, asOf.Format("2006-01-02"), includeLabor, includeOverhead)
}

// ─── Redis implementation ─────────────────────────────────────────────────────

type redisCostCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCostCache(rdb *redis.Client, ttl time.Duration) CostCache {
	return &redisCostCache{rdb: rdb, ttl: ttl}
}

func (c *redisCostCache) Get(ctx context.Context, key string) (*dto.CostResponse, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.CostResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set stores the result best-effort; cache write failures never fail the
// calculation that produced the value.
func (c *redisCostCache) Set(ctx context.Context, key string, resp *dto.CostResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// ─── No-op implementation ─────────────────────────────────────────────────────

type noopCostCache struct{}

// NewNoop returns a cache that stores nothing. Used in tests and when
// memoization is disabled by configuration.
func NewNoop() CostCache { return noopCostCache{} }

func (noopCostCache) Get(context.Context, string) (*dto.CostResponse, bool) { return nil, false }
func (noopCostCache) Set(context.Context, string, *dto.CostResponse)        {}
