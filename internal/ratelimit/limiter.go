package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/subscriptions/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyPolicyBucket = "ratelimit:%s:%s"

// Decision is the outcome of checking one request against every policy of
// its scope.
type Decision struct {
	Allowed    bool
	Policy     string
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter applies the configured rate policies per client key. A nil
// *Limiter allows everything.
type Limiter struct {
	bucket   *TokenBucket
	lock     *WriteLock
	policies *config.RateLimitPolicyHolder
}

type LimiterParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Policies  *config.RateLimitPolicyHolder
	Log       *zap.Logger
}

// NewLimiter connects to Redis when rate limiting is enabled and returns nil
// otherwise.
func NewLimiter(p LimiterParams) (*Limiter, error) {
	limitCfg := p.Config.RateLimit
	if !limitCfg.Enabled {
		p.Log.Info("rate limiting disabled")
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return NewLimiterWithClient(client, p.Policies), nil
}

func NewLimiterWithClient(client *redis.Client, policies *config.RateLimitPolicyHolder) *Limiter {
	return &Limiter{
		bucket:   NewTokenBucket(client),
		lock:     NewWriteLock(client, defaultWriteLockTTL),
		policies: policies,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow takes one token from every bucket the scope is bound by and stops at
// the first exhausted one.
func (l *Limiter) Allow(ctx context.Context, scope, clientKey string) (Decision, error) {
	if !l.Enabled() {
		return Decision{Allowed: true}, nil
	}

	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		clientKey = "anonymous"
	}

	var last Decision
	for _, policy := range l.policies.Get().For(scope) {
		res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyPolicyBucket, policy.Name, clientKey), policy.Rate(), policy.Limit)
		if err != nil {
			return Decision{}, fmt.Errorf("rate limit %s: %w", policy.Name, err)
		}

		last = Decision{
			Allowed:    res.Allowed,
			Policy:     policy.Name,
			Limit:      res.Limit,
			Remaining:  res.Remaining,
			RetryAfter: res.RetryAfter,
		}
		if !res.Allowed {
			return last, nil
		}
	}

	last.Allowed = true
	return last, nil
}

// TryLockWrite holds a short lock so one client runs a single write at a time.
func (l *Limiter) TryLockWrite(ctx context.Context, clientKey string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.lock.Acquire(ctx, clientKey)
}

func (l *Limiter) ReleaseWrite(ctx context.Context, clientKey, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.lock.Release(ctx, clientKey, token)
}
