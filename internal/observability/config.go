package observability

import (
	"strings"

	"github.com/smallbiznis/subscriptions/internal/config"
	"github.com/smallbiznis/subscriptions/internal/observability/logger"
	"github.com/smallbiznis/subscriptions/internal/observability/metrics"
	"github.com/smallbiznis/subscriptions/internal/observability/tracing"
	gormlogger "gorm.io/gorm/logger"
)

// Config is the application config as seen by the logger, tracer and meter.
type Config struct {
	config.ObservabilityConfig

	ServiceName string
	Environment string
	Version     string
}

func FromAppConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "subscriptions"
	}
	return Config{
		ObservabilityConfig: cfg.Observability,
		ServiceName:         serviceName,
		Environment:         strings.TrimSpace(cfg.Environment),
		Version:             strings.TrimSpace(cfg.AppVersion),
	}
}

// Debug is true for the debug log level and for non-deployed environments.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		ServiceName: c.ServiceName,
		Environment: c.Environment,
		Version:     c.Version,
		Level:       c.LogLevel,
		Format:      c.LogFormat,
		Debug:       c.Debug(),
	}
}

func (c Config) TracingConfig() tracing.Config {
	return tracing.Config{
		Enabled:          c.OtelEnabled,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.OtelEndpoint,
		ExporterProtocol: c.OtelProtocol,
		SamplingRatio:    c.OtelSamplingRatio,
	}
}

func (c Config) MetricsConfig() metrics.Config {
	return metrics.Config{
		Enabled:          c.OtelEnabled,
		ExporterEndpoint: c.OtelEndpoint,
		ExporterProtocol: c.OtelProtocol,
		ServiceName:      c.ServiceName,
		Environment:      c.Environment,
	}
}

// GormLoggerConfig logs every statement in debug mode. An error log level
// also hides slow-query warnings.
func (c Config) GormLoggerConfig() logger.GormLoggerConfig {
	cfg := logger.DefaultGormLoggerConfig(c.Debug())
	if !c.Debug() && strings.EqualFold(strings.TrimSpace(c.LogLevel), "error") {
		cfg.Level = gormlogger.Error
	}
	return cfg
}
