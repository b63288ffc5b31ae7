package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncPollCycles()
	IncMessagesSeen()
	IncMessagesSkipped(reason string)
	IncResultsRecorded()
	ObserveProcessingDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps a persistent tally of pipeline outcomes.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
