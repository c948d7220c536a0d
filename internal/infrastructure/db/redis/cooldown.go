package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CooldownGuard debounces attendance marks backed by Redis.
// Key format: cooldown:<identity_id>:<date>
//
// A kiosk streaming camera frames can emit several mark requests for the
// same face within seconds; without the guard the second frame would check
// the person straight out. The key self-expires, so a crashed instance
// never wedges an identity.
type CooldownGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCooldownGuard creates a CooldownGuard wrapping the given Redis client.
func NewCooldownGuard(client *redis.Client, ttl time.Duration) *CooldownGuard {
	return &CooldownGuard{client: client, ttl: ttl}
}

// Active reports whether a mark for this identity and date landed inside
// the cooldown window.
func (g *CooldownGuard) Active(ctx context.Context, identityID, date string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(identityID, date)).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown check: %w", err)
	}
	return n > 0, nil
}

// Arm starts the cooldown window after a successful mark.
func (g *CooldownGuard) Arm(ctx context.Context, identityID, date string) error {
	return g.client.Set(ctx, g.key(identityID, date), "1", g.ttl).Err()
}

func (g *CooldownGuard) key(identityID, date string) string {
	return fmt.Sprintf("cooldown:%s:%s", identityID, date)
}
