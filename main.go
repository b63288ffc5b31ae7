package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-inbox/internal/config"
	"github.com/mauv0809/league-inbox/internal/database"
	server "github.com/mauv0809/league-inbox/internal/http"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/ledger"
	"github.com/mauv0809/league-inbox/internal/mailbox"
	"github.com/mauv0809/league-inbox/internal/metrics"
	"github.com/mauv0809/league-inbox/internal/notifier/slack"
	"github.com/mauv0809/league-inbox/internal/processor"
	"github.com/mauv0809/league-inbox/internal/pubsub"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	source, err := mailbox.DialIMAP(mailbox.IMAPConfig{
		Host:     cfg.IMAP.Host,
		Port:     cfg.IMAP.Port,
		User:     cfg.IMAP.User,
		Password: cfg.IMAP.Password,
		Mailbox:  cfg.IMAP.Mailbox,
	})
	if err != nil {
		dbTeardown()
		log.Fatalf("Failed to open mailbox: %s", err)
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.Warn("Failed to log out of mail server", "error", err)
		}
	}()

	var attempts ledger.Ledger = ledger.NewSQL(db)
	if cfg.RedisURL != "" {
		redisLedger, err := ledger.NewRedis(cfg.RedisURL, ledger.DefaultTTL)
		if err != nil {
			source.Close()
			dbTeardown()
			log.Fatalf("Failed to connect to redis: %s", err)
		}
		defer redisLedger.Close()
		attempts = redisLedger
	}

	leagueStore := league.New(db)
	tally := metrics.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	// Interfaces stay nil when the integration is not configured.
	var resultNotifier processor.Notifier
	if cfg.Slack.Enabled() {
		resultNotifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack is not configured, result notifications disabled")
	}
	var events pubsub.PubSubClient
	if cfg.ProjectID != "" {
		events, err = pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Error("Failed to create pubsub client, result events disabled", "error", err)
			events = nil
		} else {
			defer events.Close()
		}
	}

	proc := processor.New(source, leagueStore, attempts, tally, resultNotifier, events, metricsSvc, processor.Config{
		SubjectFilter: cfg.Ingest.SubjectFilter,
		PollInterval:  cfg.Ingest.PollInterval,
		RunBudget:     cfg.Ingest.RunBudget,
		DryRun:        cfg.DryRun,
	})

	s := server.NewServer(leagueStore, tally, metricsHandler, cfg, resultNotifier, proc)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- proc.Run(ctx)
	}()

	// Block until the run budget is spent, we receive a signal or the server fails.
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "error", err)
		}
		stop()
		<-loopDone
	case err := <-loopDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Ingestion loop stopped", "error", err)
		}
		if ctx.Err() != nil {
			log.Info("Shutdown signal received")
		}
	}

	// Create a context with a timeout for the shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	} else {
		log.Info("Server gracefully stopped")
	}

	log.Info("Server process shutting down")
}
