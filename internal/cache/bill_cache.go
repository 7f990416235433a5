package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/autumninthecloud/AIBillBrief/internal/model"
)

// BillCache memoizes the recent-bills listing and corpus statistics. The
// corpus only changes on ingestion runs, so short TTLs are plenty.
type BillCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewBillCache(client *redisv9.Client, ttl time.Duration) *BillCache {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &BillCache{client: client, ttl: ttl}
}

func (c *BillCache) GetRecentBills(ctx context.Context) ([]model.BillSummary, bool, error) {
	raw, err := c.client.Get(ctx, c.recentKey()).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get recent bills failed: %w", err)
	}
	var bills []model.BillSummary
	if err := json.Unmarshal([]byte(raw), &bills); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached recent bills failed: %w", err)
	}
	return bills, true, nil
}

func (c *BillCache) SetRecentBills(ctx context.Context, bills []model.BillSummary) error {
	payload, err := json.Marshal(bills)
	if err != nil {
		return fmt.Errorf("marshal recent bills failed: %w", err)
	}
	if err := c.client.Set(ctx, c.recentKey(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set recent bills failed: %w", err)
	}
	return nil
}

func (c *BillCache) GetStats(ctx context.Context) (*model.BillStats, bool, error) {
	raw, err := c.client.Get(ctx, c.statsKey()).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get bill stats failed: %w", err)
	}
	var stats model.BillStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached bill stats failed: %w", err)
	}
	return &stats, true, nil
}

func (c *BillCache) SetStats(ctx context.Context, stats *model.BillStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal bill stats failed: %w", err)
	}
	if err := c.client.Set(ctx, c.statsKey(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set bill stats failed: %w", err)
	}
	return nil
}

func (c *BillCache) recentKey() string { return "billbrief:bills:recent" }
func (c *BillCache) statsKey() string  { return "billbrief:bills:stats" }
