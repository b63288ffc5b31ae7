package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func requiredEnv() map[string]string {
	return map[string]string{
		"DB_NAME":       "league.db",
		"IMAP_HOST":     "imap.example.com",
		"IMAP_USER":     "results@example.com",
		"IMAP_PASSWORD": "secret",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(requiredEnv()))
	require.NoError(t, err)

	assert.Equal(t, "league.db", cfg.DBName)
	assert.Equal(t, "./migrations", cfg.MigrationsDir)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 993, cfg.IMAP.Port)
	assert.Equal(t, "INBOX", cfg.IMAP.Mailbox)
	assert.Equal(t, "Admin: A league match was played", cfg.Ingest.SubjectFilter)
	assert.Equal(t, 5*time.Minute, cfg.Ingest.PollInterval)
	assert.Equal(t, time.Hour, cfg.Ingest.RunBudget)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.Slack.Enabled())
	assert.Empty(t, cfg.RedisURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	env := requiredEnv()
	env["IMAP_PORT"] = "1993"
	env["POLL_INTERVAL"] = "30s"
	env["RUN_BUDGET"] = "55m"
	env["DRY_RUN"] = "true"
	env["SLACK_BOT_TOKEN"] = "xoxb-1"
	env["SLACK_CHANNEL_ID"] = "C1"
	env["REDIS_URL"] = "redis://localhost:6379/0"
	env["LOG_LEVEL"] = "debug"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)
	assert.Equal(t, 1993, cfg.IMAP.Port)
	assert.Equal(t, 30*time.Second, cfg.Ingest.PollInterval)
	assert.Equal(t, 55*time.Minute, cfg.Ingest.RunBudget)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Slack.Enabled())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Run("missing required values are all reported", func(t *testing.T) {
		_, err := FromEnv(envFrom(map[string]string{"DB_NAME": "x"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "IMAP_HOST")
		assert.Contains(t, err.Error(), "IMAP_PASSWORD")
	})

	t.Run("invalid values", func(t *testing.T) {
		env := requiredEnv()
		env["POLL_INTERVAL"] = "soon"
		env["IMAP_PORT"] = "imap"
		env["DRY_RUN"] = "maybe"
		_, err := FromEnv(envFrom(env))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POLL_INTERVAL")
		assert.Contains(t, err.Error(), "IMAP_PORT")
		assert.Contains(t, err.Error(), "DRY_RUN")
	})
}
