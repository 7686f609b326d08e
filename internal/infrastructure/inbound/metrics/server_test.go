package metrics_server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	metrics_server "pinstack-feed-service/internal/infrastructure/inbound/metrics"
	"pinstack-feed-service/internal/infrastructure/logger"
	"pinstack-feed-service/internal/infrastructure/outbound/metrics/prometheus"
)

func TestMetricsServer_ExposesServiceMetrics(t *testing.T) {
	provider := prometheus.NewPrometheusMetricsProvider()
	provider.SetServiceHealth(true)
	provider.IncrementPostOperations("create", true)

	srv := metrics_server.NewMetricsServer("127.0.0.1", 0, logger.New("test"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "service_health")
	assert.Contains(t, rec.Body.String(), "post_operations_total")
}
