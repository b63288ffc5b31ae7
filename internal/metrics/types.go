package metrics

import (
	"database/sql"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Service holds all the Prometheus metrics for the application.
type Service struct {
	PollCycles         prometheus.Counter
	MessagesSeen       prometheus.Counter
	MessagesSkipped    *prometheus.CounterVec
	ResultsRecorded    prometheus.Counter
	ProcessingDuration prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// store handles metric-related database operations.
type store struct {
	db *sql.DB
	mu sync.Mutex
}
