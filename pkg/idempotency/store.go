package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store marks keys as seen in redis with a TTL. It backs two concerns:
// the checkout double-submit guard and consumer message deduplication.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// CheckoutKey scopes a client-supplied idempotency key to one store.
func CheckoutKey(storeID uuid.UUID, idemKey string) string {
	return fmt.Sprintf("checkout:%s:%s", storeID, idemKey)
}

// MessageKey identifies a consumed kafka message.
func MessageKey(topic string, partition int, offset int64) string {
	return fmt.Sprintf("msg:%s:%d:%d", topic, partition, offset)
}

// Seen atomically records the key and reports whether it was already present.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Forget releases a recorded key so the same submission may be retried,
// e.g. after the guarded operation failed.
func (s *Store) Forget(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
