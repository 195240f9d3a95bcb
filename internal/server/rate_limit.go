package server

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/subscriptions/internal/config"
	"github.com/smallbiznis/subscriptions/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/subscriptions/internal/observability/metrics"
	"go.uber.org/zap"
)

const rateLimitReasonWriteConcurrency = "write-concurrency"

// RateLimit enforces the policies of scope per client address. Write scopes
// also hold a per-client lock for the duration of the request.
func (s *Server) RateLimit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		clientKey := c.ClientIP()

		decision, err := s.limiter.Allow(ctx, scope, clientKey)
		if err != nil {
			logger.FromContext(ctx).Warn("rate limit check failed", zap.String("scope", scope), zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			denyRateLimit(c, scope, decision.Policy, decision.RetryAfter, s.obsMetrics)
			return
		}

		if scope == config.ScopeWrite {
			token, locked, err := s.limiter.TryLockWrite(ctx, clientKey)
			if err != nil {
				logger.FromContext(ctx).Warn("write concurrency lock failed", zap.Error(err))
				AbortWithError(c, ErrServiceUnavailable)
				return
			}
			if !locked {
				denyRateLimit(c, scope, rateLimitReasonWriteConcurrency, time.Second, s.obsMetrics)
				return
			}
			defer func() {
				if err := s.limiter.ReleaseWrite(context.WithoutCancel(ctx), clientKey, token); err != nil {
					logger.FromContext(ctx).Warn("write concurrency unlock failed", zap.Error(err))
				}
			}()
		}

		s.obsMetrics.RecordRateLimitAllowed(ctx, scope)
		c.Next()
	}
}

func denyRateLimit(c *gin.Context, scope, reason string, retryAfter time.Duration, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Warn("rate limit exceeded",
		zap.String("scope", scope),
		zap.String("reason", reason),
		zap.String("client_ip", c.ClientIP()),
	)
	metrics.RecordRateLimitDenied(ctx, scope, reason)

	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.Header("X-Rate-Limited-Reason", reason)
	AbortWithError(c, ErrRateLimited)
}
