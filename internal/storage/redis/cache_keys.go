package redis

import (
	"context"
	"fmt"
	"time"

	"opportunity-alerts/internal/models"
)

const (
	UpcomingCacheTTL   = 5 * time.Minute
	RateLimitWindowTTL = 1 * time.Minute
)

func UpcomingKey(days int) string {
	return fmt.Sprintf("opportunities:upcoming:%d", days)
}

func APIRateLimitKey() string {
	return "ratelimit:backend"
}

// GetUpcoming returns the cached upcoming-opportunity list for the given
// lead time, or ErrCacheMiss.
func (c *Cache) GetUpcoming(ctx context.Context, days int) ([]models.Opportunity, error) {
	var items []models.Opportunity
	if err := c.Get(ctx, UpcomingKey(days), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Cache) SetUpcoming(ctx context.Context, days int, items []models.Opportunity) error {
	return c.Set(ctx, UpcomingKey(days), items, UpcomingCacheTTL)
}

func (c *Cache) InvalidateUpcoming(ctx context.Context, days int) error {
	return c.Delete(ctx, UpcomingKey(days))
}

func (c *Cache) IncrementAPIRateLimit(ctx context.Context) (int64, error) {
	return c.IncrementWithExpiry(ctx, APIRateLimitKey(), RateLimitWindowTTL)
}

func (c *Cache) GetAPIRateLimit(ctx context.Context) (int64, error) {
	return c.GetInt(ctx, APIRateLimitKey())
}
