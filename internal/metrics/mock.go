package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	pollCycles          int
	messagesSeen        int
	skipped             map[string]int
	resultsRecorded     int
	processingDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		skipped:             make(map[string]int),
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncPollCycles() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollCycles++
}

func (m *Mock) IncMessagesSeen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messagesSeen++
}

func (m *Mock) IncMessagesSkipped(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped[reason]++
}

func (m *Mock) IncResultsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsRecorded++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PollCycles returns the number of times IncPollCycles was called.
func (m *Mock) PollCycles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pollCycles
}

// MessagesSeen returns the number of times IncMessagesSeen was called.
func (m *Mock) MessagesSeen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messagesSeen
}

// Skipped returns how many messages were skipped for reason.
func (m *Mock) Skipped(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skipped[reason]
}

// ResultsRecorded returns the number of times IncResultsRecorded was called.
func (m *Mock) ResultsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsRecorded
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// TallyMock is an in-memory MetricsStore.
type TallyMock struct {
	mu     sync.Mutex
	values map[string]int
}

// NewTallyMock creates an empty TallyMock.
func NewTallyMock() *TallyMock {
	return &TallyMock{values: make(map[string]int)}
}

func (m *TallyMock) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key]++
}

func (m *TallyMock) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}
