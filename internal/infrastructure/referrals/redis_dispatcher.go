package referrals

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// RedisDispatcher implements domain.ReferralDispatcher by pushing events
// onto a Redis list consumed by the CRM side of the platform. Delivery is
// best-effort: the caller fires it from a detached goroutine and only logs
// failures.
type RedisDispatcher struct {
	client   *redis.Client
	queueKey string
}

// NewRedisDispatcher creates a new Redis-backed referral dispatcher
func NewRedisDispatcher(client *redis.Client, queueKey string) domain.ReferralDispatcher {
	return &RedisDispatcher{client: client, queueKey: queueKey}
}

// Dispatch implements domain.ReferralDispatcher
func (d *RedisDispatcher) Dispatch(ctx context.Context, event *domain.ReferralEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode referral event: %w", err)
	}
	if err := d.client.LPush(ctx, d.queueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue referral event: %w", err)
	}
	return nil
}
