package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/muktihq/companion-api/internal/core/domain"
)

// usageTTL keeps the previous day's counter around briefly for sessions
// straddling midnight, then lets it expire.
const usageTTL = 48 * time.Hour

// UsageCounter tracks accepted model-backed turns per user per UTC day.
// Key format: usage:<username>:<yyyy-mm-dd>
type UsageCounter struct {
	client *redis.Client
}

func NewUsageCounter(client *redis.Client) *UsageCounter {
	return &UsageCounter{client: client}
}

func (u *UsageCounter) Increment(ctx context.Context, username string, day time.Time) error {
	key := u.key(username, day)
	pipe := u.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, usageTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("usage incr: %w: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

func (u *UsageCounter) Count(ctx context.Context, username string, day time.Time) (int, error) {
	n, err := u.client.Get(ctx, u.key(username, day)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("usage count: %w: %v", domain.ErrBackendUnavailable, err)
	}
	return n, nil
}

func (u *UsageCounter) key(username string, day time.Time) string {
	return fmt.Sprintf("usage:%s:%s", username, day.UTC().Format(time.DateOnly))
}
