package presence

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// presence key: pairlink:presence:<user>
// value: conn_id, TTL bounds staleness if a gateway dies without cleanup
func presenceKey(user string) string { return "pairlink:presence:" + user }

// compare-and-delete so a stale connection cannot evict a newer entry
var removeIfMatchesScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRegistry is the shared registry for multi-process deployments, where
// the sender's gateway and the receiver's gateway need not be the same
// process.
type RedisRegistry struct {
	rdb *redis.Client
	ttl time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisRegistry(ctx context.Context, cfg RedisConfig) (*RedisRegistry, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisRegistry{rdb: rdb, ttl: ttl}, nil
}

func (r *RedisRegistry) SetOnline(ctx context.Context, userID, connID string) error {
	return r.rdb.Set(ctx, presenceKey(userID), connID, r.ttl).Err()
}

func (r *RedisRegistry) Channel(ctx context.Context, userID string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, presenceKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisRegistry) RemoveIfMatches(ctx context.Context, userID, connID string) error {
	return removeIfMatchesScript.Run(ctx, r.rdb, []string{presenceKey(userID)}, connID).Err()
}
