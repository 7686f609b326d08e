package prometheus_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"pinstack-feed-service/internal/infrastructure/outbound/metrics/prometheus"
)

func TestPrometheusMetricsProvider(t *testing.T) {
	provider := prometheus.NewPrometheusMetricsProvider()

	before := testutil.ToFloat64(prometheus.PostOperationsTotal.WithLabelValues("create", "true"))
	provider.IncrementPostOperations("create", true)
	assert.Equal(t, before+1, testutil.ToFloat64(prometheus.PostOperationsTotal.WithLabelValues("create", "true")))

	provider.SetActiveConnections(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(prometheus.ActiveConnections))

	provider.SetServiceHealth(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(prometheus.ServiceHealth))
	provider.SetServiceHealth(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(prometheus.ServiceHealth))
}
