package prometheus

import (
	"strconv"
	"time"

	ports "pinstack-feed-service/internal/domain/ports/output"
)

type PrometheusMetricsProvider struct{}

func NewPrometheusMetricsProvider() ports.MetricsProvider {
	return &PrometheusMetricsProvider{}
}

func (p *PrometheusMetricsProvider) IncrementHTTPRequests(method, route, status string) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}

func (p *PrometheusMetricsProvider) RecordHTTPRequestDuration(method, route string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (p *PrometheusMetricsProvider) IncrementDatabaseQueries(queryType string, success bool) {
	DatabaseQueriesTotal.WithLabelValues(queryType, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) RecordDatabaseQueryDuration(queryType string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
}

func (p *PrometheusMetricsProvider) IncrementPostOperations(operation string, success bool) {
	PostOperationsTotal.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) IncrementAuthOperations(operation string, success bool) {
	AuthOperationsTotal.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) IncrementImageOperations(operation string, success bool) {
	ImageOperationsTotal.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) IncrementEventsPublished(action string, success bool) {
	EventsPublishedTotal.WithLabelValues(action, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) SetActiveConnections(count int) {
	ActiveConnections.Set(float64(count))
}

func (p *PrometheusMetricsProvider) SetServiceHealth(healthy bool) {
	if healthy {
		ServiceHealth.Set(1)
	} else {
		ServiceHealth.Set(0)
	}
}
