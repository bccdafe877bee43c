package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key this service writes, so a shared Redis
// instance can host the event queue next to other tenants.
const KeyPrefix = "classtrack:"

// Redis wraps the client used for the event queue and health checks.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis. Timeouts stay short: the queue tolerates a
// dropped publish, and health checks must not hang the probe.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity for the readiness endpoint.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}
