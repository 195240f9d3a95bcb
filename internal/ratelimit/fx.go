package ratelimit

import (
	"github.com/smallbiznis/subscriptions/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.limit",
	fx.Provide(config.NewRateLimitPolicyHolder),
	fx.Provide(NewLimiter),
)
