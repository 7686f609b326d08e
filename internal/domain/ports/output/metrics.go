package ports

import "time"

type MetricsProvider interface {
	IncrementHTTPRequests(method, route, status string)
	RecordHTTPRequestDuration(method, route string, duration time.Duration)

	IncrementDatabaseQueries(queryType string, success bool)
	RecordDatabaseQueryDuration(queryType string, duration time.Duration)

	IncrementPostOperations(operation string, success bool)
	IncrementAuthOperations(operation string, success bool)
	IncrementImageOperations(operation string, success bool)
	IncrementEventsPublished(action string, success bool)
	SetActiveConnections(count int)

	SetServiceHealth(healthy bool)
}
