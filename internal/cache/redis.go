package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"arbdesk/internal/model"
)

const quoteTTL = 2 * time.Minute

// QuoteCache stores the latest quote per venue in Redis plus a short
// time-series sorted set for range queries by display tooling. Entries
// expire quickly; stale prices must never feed a trade decision.
type QuoteCache struct {
	client *redis.Client
}

// NewQuoteCache creates a cache backed by the given Redis client.
func NewQuoteCache(client *redis.Client) *QuoteCache {
	return &QuoteCache{client: client}
}

// SetQuote writes the latest quote for its venue and appends it to the
// venue's time series.
func (c *QuoteCache) SetQuote(ctx context.Context, q model.Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	latestKey := fmt.Sprintf("quote:latest:%s:%s", q.Pair, q.Exchange)
	if err := c.client.Set(ctx, latestKey, payload, quoteTTL).Err(); err != nil {
		return fmt.Errorf("failed to set latest quote: %w", err)
	}

	seriesKey := fmt.Sprintf("quote:series:%s:%s", q.Pair, q.Exchange)
	if err := c.client.ZAdd(ctx, seriesKey, redis.Z{
		Score:  float64(q.Timestamp.UnixMilli()),
		Member: payload,
	}).Err(); err != nil {
		return fmt.Errorf("failed to append quote series: %w", err)
	}
	c.client.Expire(ctx, seriesKey, quoteTTL)

	return nil
}

// LatestQuote returns the freshest cached quote for a venue, or ok=false
// when nothing unexpired is present.
func (c *QuoteCache) LatestQuote(ctx context.Context, pair, exchange string) (model.Quote, bool, error) {
	latestKey := fmt.Sprintf("quote:latest:%s:%s", pair, exchange)
	payload, err := c.client.Get(ctx, latestKey).Bytes()
	if err == redis.Nil {
		return model.Quote{}, false, nil
	}
	if err != nil {
		return model.Quote{}, false, fmt.Errorf("failed to get latest quote: %w", err)
	}

	var q model.Quote
	if err := json.Unmarshal(payload, &q); err != nil {
		return model.Quote{}, false, fmt.Errorf("failed to unmarshal quote: %w", err)
	}
	return q, true, nil
}
