package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyWriteLock = "ratelimit:write:lock:%s"

	defaultWriteLockTTL = 10 * time.Second
)

// Deletes the lock only while it still carries the caller's token, so an
// expired holder cannot release a lock taken over by someone else.
var releaseWriteLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// WriteLock serializes writes per client. A held lock expires after ttl even
// if the holder never releases it.
type WriteLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWriteLock(client *redis.Client, ttl time.Duration) *WriteLock {
	if ttl <= 0 {
		ttl = defaultWriteLockTTL
	}
	return &WriteLock{client: client, ttl: ttl}
}

func writeLockKey(clientKey string) string {
	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		clientKey = "anonymous"
	}
	return fmt.Sprintf(keyWriteLock, clientKey)
}

// Acquire returns the token to release with and false when another write of
// the same client is still in flight.
func (w *WriteLock) Acquire(ctx context.Context, clientKey string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := w.client.SetNX(ctx, writeLockKey(clientKey), token, w.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire write lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (w *WriteLock) Release(ctx context.Context, clientKey, token string) error {
	if token == "" {
		return nil
	}
	if err := releaseWriteLock.Run(ctx, w.client, []string{writeLockKey(clientKey)}, token).Err(); err != nil {
		return fmt.Errorf("release write lock: %w", err)
	}
	return nil
}
