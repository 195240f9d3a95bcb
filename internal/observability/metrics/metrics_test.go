package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("entity", "plan"),
		attribute.String("customer_id", "456"),
		attribute.String("reason", "validation"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("entity"), attrs[0].Key)
	assert.Equal(t, attribute.Key("reason"), attrs[1].Key)
}

func TestRecordEntityCreated(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := New(Config{ServiceName: "subscriptions"}, provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordEntityCreated(ctx, "plan")
	m.RecordEntityCreated(ctx, "plan")
	m.RecordOperationFailure(ctx, "create_plan", "validation")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, md := range scope.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[md.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), totals["subscriptions_entities_created_total"])
	assert.Equal(t, int64(1), totals["subscriptions_operation_failures_total"])
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordEntityCreated(context.Background(), "plan")
		m.RecordRateLimitDenied(context.Background(), "write", "exhausted")
	})
}

func TestHTTPMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := newHTTPMetrics(reg, Config{ServiceName: "subscriptions", Environment: "test"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestHTTPMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := newHTTPMetrics(reg, Config{})
	require.NoError(t, err)

	_, err = newHTTPMetrics(reg, Config{})
	assert.Error(t, err)
}
