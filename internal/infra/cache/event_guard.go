package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stripeEventKeyPrefix = "stripe:event:"
	// DefaultEventTTL covers Stripe's automatic retry window.
	DefaultEventTTL = 72 * time.Hour
)

// EventGuard remembers processed webhook event ids. A nil guard, or one
// without a client, lets every event through; the database constraints
// still prevent duplicate rows.
type EventGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventGuard(client *redis.Client, ttl time.Duration) *EventGuard {
	if ttl <= 0 {
		ttl = DefaultEventTTL
	}
	return &EventGuard{client: client, ttl: ttl}
}

func (g *EventGuard) buildKey(eventID string) string {
	return stripeEventKeyPrefix + eventID
}

// Claim returns true the first time an event id is seen.
func (g *EventGuard) Claim(ctx context.Context, eventID string) (bool, error) {
	if g == nil || g.client == nil || eventID == "" {
		return true, nil
	}

	acquired, err := g.client.SetNX(ctx, g.buildKey(eventID), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim stripe event: %w", err)
	}
	return acquired, nil
}

// Release forgets an event so Stripe's retry is processed again. Used when
// handling failed after Claim.
func (g *EventGuard) Release(ctx context.Context, eventID string) error {
	if g == nil || g.client == nil || eventID == "" {
		return nil
	}
	if err := g.client.Del(ctx, g.buildKey(eventID)).Err(); err != nil {
		return fmt.Errorf("failed to release stripe event: %w", err)
	}
	return nil
}

// NewClient parses a redis:// URL. An empty URL yields a nil client.
func NewClient(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
