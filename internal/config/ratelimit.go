package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Rate limit scopes.
const (
	ScopeDefault = "default"
	ScopeWrite   = "write"
)

type RatePolicy struct {
	Name   string        `mapstructure:"name" yaml:"name"`
	Limit  int           `mapstructure:"limit" yaml:"limit"`
	Period time.Duration `mapstructure:"period" yaml:"period"`
}

// Rate returns the refill rate in tokens per second.
func (p RatePolicy) Rate() float64 {
	if p.Period <= 0 {
		return 0
	}
	return float64(p.Limit) / p.Period.Seconds()
}

type RateLimitPolicies struct {
	Default []RatePolicy `mapstructure:"default" yaml:"default"`
	Write   []RatePolicy `mapstructure:"write" yaml:"write"`
}

// For returns the policies applied to a scope. Write routes are bound by
// both the default and the write policies.
func (p RateLimitPolicies) For(scope string) []RatePolicy {
	switch scope {
	case ScopeWrite:
		out := make([]RatePolicy, 0, len(p.Default)+len(p.Write))
		out = append(out, p.Default...)
		return append(out, p.Write...)
	default:
		return p.Default
	}
}

func DefaultRateLimitPolicies() RateLimitPolicies {
	return RateLimitPolicies{
		Default: []RatePolicy{
			{Name: "daily", Limit: 100, Period: 24 * time.Hour},
			{Name: "hourly", Limit: 30, Period: time.Hour},
		},
		Write: []RatePolicy{
			{Name: "minute", Limit: 10, Period: time.Minute},
		},
	}
}

type RateLimitPolicyHolder struct {
	current atomic.Value // holds RateLimitPolicies
}

// NewRateLimitPolicyHolder reads ratelimit.yml and keeps it reloaded on change.
// Defaults apply when no file is found.
func NewRateLimitPolicyHolder(cfg Config, log *zap.Logger) (*RateLimitPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("ratelimit")
	v.SetConfigType("yml")
	if dir := strings.TrimSpace(cfg.RateLimit.PolicyPath); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("/etc/subscriptions")
	v.AddConfigPath(".")

	defaults := DefaultRateLimitPolicies()
	v.SetDefault("ratelimit.default", defaults.Default)
	v.SetDefault("ratelimit.write", defaults.Write)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	policies, err := decodePolicies(v)
	if err != nil {
		return nil, err
	}

	holder := &RateLimitPolicyHolder{}
	holder.current.Store(policies)

	if !fileFound {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodePolicies(v)
		if err != nil {
			log.Warn("rate limit policy reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("rate limit policies reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

// NewStaticRateLimitPolicyHolder pins a fixed policy set.
func NewStaticRateLimitPolicyHolder(policies RateLimitPolicies) *RateLimitPolicyHolder {
	holder := &RateLimitPolicyHolder{}
	holder.current.Store(policies)
	return holder
}

func (h *RateLimitPolicyHolder) Get() RateLimitPolicies {
	return h.current.Load().(RateLimitPolicies)
}

func decodePolicies(v *viper.Viper) (RateLimitPolicies, error) {
	var policies RateLimitPolicies
	if err := v.UnmarshalKey("ratelimit", &policies); err != nil {
		return RateLimitPolicies{}, err
	}
	if err := validateRateLimitPolicies(policies); err != nil {
		return RateLimitPolicies{}, err
	}
	return policies, nil
}

func validateRateLimitPolicies(p RateLimitPolicies) error {
	if len(p.Default) == 0 {
		return errors.New("ratelimit.default cannot be empty")
	}
	for _, policy := range append(append([]RatePolicy{}, p.Default...), p.Write...) {
		if strings.TrimSpace(policy.Name) == "" {
			return errors.New("ratelimit policy name is required")
		}
		if policy.Limit <= 0 {
			return fmt.Errorf("ratelimit policy %q: limit must be positive", policy.Name)
		}
		if policy.Period <= 0 {
			return fmt.Errorf("ratelimit policy %q: period must be positive", policy.Name)
		}
	}
	return nil
}
