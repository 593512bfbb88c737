package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTicketStore makes one-shot upgrade tickets single-use. The first
// consumer wins the SET NX; anyone replaying the same ticket id loses.
type RedisTicketStore struct {
	rdb *redis.Client
}

func NewRedisTicketStore(rdb *redis.Client) *RedisTicketStore {
	return &RedisTicketStore{rdb: rdb}
}

func (t *RedisTicketStore) Consume(ctx context.Context, ticketID uuid.UUID, ttl time.Duration) (bool, error) {
	return t.rdb.SetNX(ctx, "ws_ticket:"+ticketID.String(), "1", ttl).Result()
}
