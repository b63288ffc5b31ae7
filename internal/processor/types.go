package processor

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/league-inbox/internal/extract"
	"github.com/mauv0809/league-inbox/internal/ledger"
	"github.com/mauv0809/league-inbox/internal/mailbox"
	"github.com/mauv0809/league-inbox/internal/metrics"
	"github.com/mauv0809/league-inbox/internal/pubsub"
)

// Config controls the ingestion loop.
type Config struct {
	SubjectFilter string
	PollInterval  time.Duration
	RunBudget     time.Duration
	DryRun        bool
	// Strategies defaults to extract.DefaultIdentifierStrategies.
	Strategies []extract.IdentifierStrategy
}

// Processor pulls notifications from a mailbox and records the match results
// they describe. Polls are serialised: there is only ever one consumer.
type Processor struct {
	source   mailbox.Source
	store    Store
	ledger   ledger.Ledger
	tally    metrics.MetricsStore
	notifier Notifier
	pubsub   pubsub.PubSubClient
	metrics  metrics.Metrics
	cfg      Config

	mu    sync.Mutex
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Summary reports what a single poll cycle did.
type Summary struct {
	PollID   string         `json:"poll_id"`
	Seen     int            `json:"seen"`
	Recorded int            `json:"recorded"`
	Skipped  map[string]int `json:"skipped"`
	DryRun   bool           `json:"dry_run"`
}
