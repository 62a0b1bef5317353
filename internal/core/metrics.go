package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Gate decisions
	RecordAuthAttempt(scheme, outcome string, duration time.Duration)
	RecordAuthRejected(scheme, reason string)

	// Directory
	RecordDirectoryLookup(directory, result string, duration time.Duration)
	RecordUserCache(result string)
	SetUsersCount(authSource string, count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}
