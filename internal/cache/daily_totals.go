package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DailyTotals keeps per-user-per-day cumulative distance in Redis. The value
// is not transactional with the database: duplicate delivery of the same
// journey still inflates the total. The increment itself is atomic
// (INCRBYFLOAT), so concurrent deliveries of distinct journeys cannot lose
// updates.
type DailyTotals struct {
	rdb *redis.Client
	ttl time.Duration // default 25h: a full day plus buffer for last-moment journeys
}

func NewDailyTotals(rdb *redis.Client, ttl time.Duration) *DailyTotals {
	if ttl <= 0 {
		ttl = 25 * time.Hour
	}
	return &DailyTotals{rdb: rdb, ttl: ttl}
}

// Key returns the cache key for (user, day).
func Key(userID string, day time.Time) string {
	return fmt.Sprintf("daily_total:%s:%s", userID, day.Format("2006-01-02"))
}

// Add atomically adds km to the running total for (user, day), refreshes the
// TTL, and returns the new total. A missing key counts as zero.
func (c *DailyTotals) Add(ctx context.Context, userID string, day time.Time, km float64) (float64, error) {
	key := Key(userID, day)

	pipe := c.rdb.TxPipeline()
	incr := pipe.IncrByFloat(ctx, key, km)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incr daily total %s: %w", key, err)
	}

	return incr.Val(), nil
}

// Get returns the current total for (user, day); a cache miss is zero.
func (c *DailyTotals) Get(ctx context.Context, userID string, day time.Time) (float64, error) {
	v, err := c.rdb.Get(ctx, Key(userID, day)).Float64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}
