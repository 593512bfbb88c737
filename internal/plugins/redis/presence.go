package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisPresenceStore mirrors live connection state under TTL keys so that
// presence survives process restarts only as long as clients keep
// heartbeating.
type RedisPresenceStore struct {
	rdb *redis.Client
}

func NewRedisPresenceStore(rdb *redis.Client) *RedisPresenceStore {
	return &RedisPresenceStore{
		rdb: rdb,
	}
}

func presenceKey(userID uuid.UUID) string {
	return "presence:" + userID.String()
}

func (p *RedisPresenceStore) MarkOnline(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	return p.rdb.Set(ctx, presenceKey(userID), "1", ttl).Err()
}

func (p *RedisPresenceStore) MarkOffline(ctx context.Context, userID uuid.UUID) error {
	return p.rdb.Del(ctx, presenceKey(userID)).Err()
}

func (p *RedisPresenceStore) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := p.rdb.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
