package tracing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/subscriptions/internal/observability/context"
	"github.com/smallbiznis/subscriptions/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const unmatchedRoute = "unmatched"

// Liveness and scrape endpoints are polled constantly and never traced.
var untracedRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// GinMiddleware opens one server span per request, named after the matched
// route template. It runs after the request logging middleware so the
// request and correlation ids are already in the context.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer("subscriptions/http")
	return func(c *gin.Context) {
		route := c.FullPath()
		if untracedRoutes[route] {
			c.Next()
			return
		}
		if route == "" {
			route = unmatchedRoute
		}

		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}
		if id := obscontext.RequestIDFromContext(ctx); id != "" {
			attrs = append(attrs, attribute.String("request_id", id))
		}
		if id := correlation.ExtractCorrelationID(ctx); id != "" {
			attrs = append(attrs, attribute.String("correlation_id", id))
		}

		ctx, span := tracer.Start(ctx, "HTTP "+c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status < http.StatusInternalServerError {
			return
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			span.RecordError(lastErr.Err)
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
