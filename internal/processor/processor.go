package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/league-inbox/internal/extract"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/ledger"
	"github.com/mauv0809/league-inbox/internal/mailbox"
	"github.com/mauv0809/league-inbox/internal/metrics"
	"github.com/mauv0809/league-inbox/internal/notifier"
	"github.com/mauv0809/league-inbox/internal/pubsub"
)

// New creates a new Processor. notifier and pubsub may be nil, in which case
// results are recorded without being announced.
func New(
	source mailbox.Source,
	store Store,
	ledger ledger.Ledger,
	tally metrics.MetricsStore,
	notifier Notifier,
	pubsub pubsub.PubSubClient,
	metrics metrics.Metrics,
	cfg Config,
) *Processor {
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = extract.DefaultIdentifierStrategies
	}
	return &Processor{
		source:   source,
		store:    store,
		ledger:   ledger,
		tally:    tally,
		notifier: notifier,
		pubsub:   pubsub,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// DryRun reports whether the processor was configured not to record results.
func (p *Processor) DryRun() bool {
	return p.cfg.DryRun
}

// Run polls the mailbox every PollInterval until RunBudget has elapsed. The
// budget is only checked between cycles, so a started cycle always finishes.
// Run returns nil when the budget expires and the context error on cancellation.
func (p *Processor) Run(ctx context.Context) error {
	runID := uuid.NewString()
	deadline := p.now().Add(p.cfg.RunBudget)
	log.Info("Starting ingestion loop", "run_id", runID, "budget", p.cfg.RunBudget, "interval", p.cfg.PollInterval, "dry_run", p.cfg.DryRun)

	for cycles := 1; ; cycles++ {
		if _, err := p.Poll(ctx, p.cfg.DryRun); err != nil {
			if ctx.Err() != nil {
				log.Info("Ingestion loop cancelled", "run_id", runID, "cycles", cycles)
				return ctx.Err()
			}
			log.Error("Poll cycle failed", "run_id", runID, "error", err)
		}

		remaining := deadline.Sub(p.now())
		if remaining <= 0 {
			log.Info("Run budget exhausted", "run_id", runID, "cycles", cycles)
			return nil
		}
		wait := p.cfg.PollInterval
		if wait > remaining {
			wait = remaining
		}
		if err := p.sleep(ctx, wait); err != nil {
			log.Info("Ingestion loop cancelled", "run_id", runID, "cycles", cycles)
			return err
		}
		if !p.now().Before(deadline) {
			log.Info("Run budget exhausted", "run_id", runID, "cycles", cycles)
			return nil
		}
	}
}

// Poll lists unseen notifications once and pushes each through the pipeline.
// A failing message is logged and skipped. If the listing fails part way, the
// messages received before the failure are still processed and the listing
// error is returned afterwards.
func (p *Processor) Poll(ctx context.Context, dryRun bool) (Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	summary := Summary{PollID: uuid.NewString(), Skipped: map[string]int{}, DryRun: dryRun}
	p.metrics.IncPollCycles()
	p.tally.Increment("poll_cycles")

	messages, listErr := p.source.ListUnseen(ctx, p.cfg.SubjectFilter)
	if listErr != nil {
		listErr = fmt.Errorf("failed to list unseen messages: %w", listErr)
		if len(messages) == 0 {
			return summary, listErr
		}
		log.Error("Mailbox listing was cut short, processing what arrived", "poll_id", summary.PollID, "received", len(messages), "error", listErr)
	}
	if len(messages) == 0 {
		log.Debug("No new notifications", "poll_id", summary.PollID)
		return summary, nil
	}
	log.Info("Found notifications to process", "poll_id", summary.PollID, "count", len(messages))

	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Seen++
		p.metrics.IncMessagesSeen()

		startTime := time.Now()
		err := p.handle(ctx, msg, dryRun)
		p.metrics.ObserveProcessingDuration(time.Since(startTime).Seconds())

		if err != nil {
			reason := Reason(err)
			summary.Skipped[reason]++
			p.metrics.IncMessagesSkipped(reason)
			p.tally.Increment("skipped_" + reason)
			if expected(err) {
				log.Warn("Skipping message", "poll_id", summary.PollID, "message_id", msg.ID, "reason", reason, "error", err)
			} else {
				log.Error("Skipping message", "poll_id", summary.PollID, "message_id", msg.ID, "reason", reason, "error", err)
			}
			continue
		}
		summary.Recorded++
	}
	log.Info("Poll cycle finished", "poll_id", summary.PollID, "seen", summary.Seen, "recorded", summary.Recorded, "skipped", summary.Skipped)
	return summary, listErr
}

// handle runs one message through the ledger and the pipeline. Once the
// attempt is in the ledger the message is flagged seen at the source. Dry runs
// and ledger lookup failures leave both untouched so the message is listed
// again by the next poll.
func (p *Processor) handle(ctx context.Context, msg mailbox.Message, dryRun bool) error {
	seen, err := p.ledger.Seen(ctx, msg.ID)
	if err != nil {
		return err
	}
	if seen {
		if !dryRun {
			p.markSeen(ctx, msg)
		}
		return fmt.Errorf("message %s: %w", msg.ID, ErrDuplicateMessage)
	}

	_, err = p.ProcessMessage(ctx, msg, dryRun)
	if dryRun || ctx.Err() != nil {
		return err
	}

	outcome := ledger.OutcomeRecorded
	if err != nil {
		outcome = Reason(err)
	}
	if markErr := p.ledger.Mark(ctx, msg.ID, outcome); markErr != nil {
		log.Error("Failed to mark message as processed", "message_id", msg.ID, "error", markErr)
	}
	p.markSeen(ctx, msg)
	return err
}

func (p *Processor) markSeen(ctx context.Context, msg mailbox.Message) {
	if err := p.source.MarkSeen(ctx, msg); err != nil {
		log.Warn("Failed to flag message seen", "message_id", msg.ID, "error", err)
	}
}

// ProcessMessage extracts the result described by msg and records it against
// its fixture. In dry-run mode everything up to the write is performed and the
// would-be result is returned without touching the store.
func (p *Processor) ProcessMessage(ctx context.Context, msg mailbox.Message, dryRun bool) (league.Result, error) {
	token, strategy, err := extract.ResolveIdentifier(msg, p.cfg.Strategies)
	if err != nil {
		return league.Result{}, err
	}
	log.Debug("Resolved match type identifier", "message_id", msg.ID, "identifier", token, "strategy", strategy)

	matchType, err := p.store.MatchTypeByIdentifier(ctx, token)
	if err != nil {
		return league.Result{}, err
	}

	parsed, err := extract.ParseSubject(msg.Subject)
	if err != nil {
		return league.Result{}, fmt.Errorf("message %s: %w", msg.ID, err)
	}
	stats1, stats2, err := parsed.DecodeBoth()
	if err != nil {
		return league.Result{}, fmt.Errorf("message %s: %w", msg.ID, err)
	}

	player1, err := p.store.PlayerByNickname(ctx, parsed.First.Nickname)
	if err != nil {
		return league.Result{}, err
	}
	player2, err := p.store.PlayerByNickname(ctx, parsed.Second.Nickname)
	if err != nil {
		return league.Result{}, err
	}

	fixture, err := p.store.FindFixture(ctx, matchType.ID, player1.ID, player2.ID)
	if err != nil {
		return league.Result{}, err
	}

	result := league.Result{
		FixtureID:     fixture.ID,
		MatchTypeID:   matchType.ID,
		Player1ID:     player1.ID,
		Player2ID:     player2.ID,
		Player1Points: stats1.NormalizedPoints(),
		Player2Points: stats2.NormalizedPoints(),
		Player1PR:     stats1.PerformanceRating,
		Player2PR:     stats2.PerformanceRating,
		Player1Luck:   stats1.Luck,
		Player2Luck:   stats2.Luck,
		GameLength:    stats1.GameLength,
		MessageID:     msg.ID,
	}

	if dryRun {
		log.Info("[Dry Run] Would record result", "message_id", msg.ID, "fixture_id", fixture.ID,
			"player1", player1.Nickname, "player1_points", result.Player1Points,
			"player2", player2.Nickname, "player2_points", result.Player2Points)
		return result, nil
	}

	recorded, err := p.store.RecordResult(ctx, fixture, result)
	if err != nil {
		return league.Result{}, err
	}
	p.metrics.IncResultsRecorded()
	p.tally.Increment("results_recorded")
	log.Info("Recorded match result", "message_id", msg.ID, "result_id", recorded.ID, "fixture_id", fixture.ID,
		"match_type", matchType.Identifier, "player1", player1.Nickname, "player2", player2.Nickname)

	p.announce(ctx, notifier.ResultNotification{
		MatchType: matchType,
		Player1:   player1,
		Player2:   player2,
		Result:    recorded,
	})
	return recorded, nil
}

// announce fans a recorded result out to Slack and Pub/Sub. Failures are
// logged only; the result is already committed.
func (p *Processor) announce(ctx context.Context, n notifier.ResultNotification) {
	if p.notifier != nil {
		if err := p.notifier.SendResultNotification(ctx, n, false); err != nil {
			log.Error("Failed to send result notification", "result_id", n.Result.ID, "error", err)
		}
	}
	if p.pubsub != nil {
		r := n.Result
		event := pubsub.ResultRecordedEvent{
			ResultID:        r.ID,
			FixtureID:       r.FixtureID,
			MatchType:       n.MatchType.Identifier,
			Player1:         n.Player1.Nickname,
			Player2:         n.Player2.Nickname,
			Player1Points:   r.Player1Points,
			Player2Points:   r.Player2Points,
			Player1PR:       r.Player1PR,
			Player2PR:       r.Player2PR,
			Player1Luck:     r.Player1Luck,
			Player2Luck:     r.Player2Luck,
			GameLength:      r.GameLength,
			MessageID:       r.MessageID,
			RecordedAtEpoch: r.RecordedAt.Unix(),
		}
		if err := p.pubsub.SendMessage(ctx, pubsub.EventResultRecorded, event); err != nil {
			log.Error("Failed to publish result event", "result_id", r.ID, "error", err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
