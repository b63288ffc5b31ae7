package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

var _ Ledger = (*RedisLedger)(nil)

// DefaultTTL bounds how long an attempt is remembered in Redis.
const DefaultTTL = 30 * 24 * time.Hour

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(redisURL string, ttl time.Duration) (*RedisLedger, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return newRedisLedger(client, ttl), nil
}

func newRedisLedger(client redisClient, ttl time.Duration) *RedisLedger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLedger{client: client, prefix: "league-inbox:message:", ttl: ttl}
}

func (l *RedisLedger) Seen(ctx context.Context, messageID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.prefix+messageID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up message %s: %w", messageID, err)
	}
	return n > 0, nil
}

func (l *RedisLedger) Mark(ctx context.Context, messageID, outcome string) error {
	set, err := l.client.SetNX(ctx, l.prefix+messageID, outcome, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to mark message %s: %w", messageID, err)
	}
	if !set {
		log.Debug("Message already marked", "message_id", messageID)
	}
	return nil
}

// Close closes the Redis connection.
func (l *RedisLedger) Close() error {
	return l.client.Close()
}
