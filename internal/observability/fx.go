package observability

import (
	"github.com/smallbiznis/subscriptions/internal/observability/logger"
	"github.com/smallbiznis/subscriptions/internal/observability/metrics"
	"github.com/smallbiznis/subscriptions/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		FromAppConfig,
		Config.LoggerConfig,
		Config.TracingConfig,
		Config.MetricsConfig,
		Config.GormLoggerConfig,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// The tracer provider installs itself globally, so it must be built even
	// though nothing injects it.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
