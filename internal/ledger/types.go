package ledger

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OutcomeRecorded is stored for messages whose result was committed. Skipped
// messages store their skip reason instead.
const OutcomeRecorded = "recorded"

// SQLLedger keeps attempts in the processed_messages table.
type SQLLedger struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// redisClient is the subset of *redis.Client used by RedisLedger.
type redisClient interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Close() error
}

// RedisLedger keeps attempts as expiring keys in Redis.
type RedisLedger struct {
	client redisClient
	prefix string
	ttl    time.Duration
}
