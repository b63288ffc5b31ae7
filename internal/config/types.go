package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	LogLevel      string
	DryRun        bool
	IMAP          IMAPConfig
	Ingest        IngestConfig
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	RedisURL      string
}
type IMAPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Mailbox  string
}
type IngestConfig struct {
	SubjectFilter string
	PollInterval  time.Duration
	RunBudget     time.Duration
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// Enabled reports whether Slack notifications are configured.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}
