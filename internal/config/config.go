package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file. Missing
// or invalid settings are fatal.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return cfg
}

// FromEnv builds a Config from lookup, which has the signature of os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var errs []error

	// A helper function to get a required env var. It records an error if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		errs = append(errs, fmt.Errorf("required environment variable %s is not set", key))
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}
	duration := func(key, fallback string) time.Duration {
		raw := optional(key, fallback)
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive duration, got %q", key, raw))
		}
		return d
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: optional("MIGRATIONS_DIR", "./migrations"),
		Port:          optional("PORT", "8080"),
		LogLevel:      optional("LOG_LEVEL", "info"),
		IMAP: IMAPConfig{
			Host:     getEnv("IMAP_HOST"),
			User:     getEnv("IMAP_USER"),
			Password: getEnv("IMAP_PASSWORD"),
			Mailbox:  optional("IMAP_MAILBOX", "INBOX"),
		},
		Ingest: IngestConfig{
			SubjectFilter: optional("SUBJECT_FILTER", "Admin: A league match was played"),
			PollInterval:  duration("POLL_INTERVAL", "5m"),
			RunBudget:     duration("RUN_BUDGET", "1h"),
		},
		Slack: SlackConfig{
			Token:     optional("SLACK_BOT_TOKEN", ""),
			ChannelID: optional("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: optional("GCP_PROJECT", ""),
		RedisURL:  optional("REDIS_URL", ""),
	}

	port, err := strconv.Atoi(optional("IMAP_PORT", "993"))
	if err != nil || port <= 0 {
		errs = append(errs, fmt.Errorf("IMAP_PORT must be a port number"))
	}
	cfg.IMAP.Port = port

	if raw := optional("DRY_RUN", "false"); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("DRY_RUN must be a boolean, got %q", raw))
		}
		cfg.DryRun = dryRun
	}

	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}
