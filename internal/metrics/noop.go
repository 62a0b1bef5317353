package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordAuthAttempt(scheme, outcome string, duration time.Duration) {}
func (n *NoopMetrics) RecordAuthRejected(scheme, reason string)                         {}

func (n *NoopMetrics) RecordDirectoryLookup(directory, result string, duration time.Duration) {}
func (n *NoopMetrics) RecordUserCache(result string)                                          {}
func (n *NoopMetrics) SetUsersCount(authSource string, count int)                             {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
