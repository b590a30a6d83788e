// README: Quota counters in Redis, one key per user and month.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func counterKey(userID int64, now time.Time) string {
	return fmt.Sprintf("quota:%d:%s", userID, now.UTC().Format("2006-01"))
}

// Incr bumps this month's counter for userID and returns the new value.
func (s *Store) Incr(ctx context.Context, userID int64, now time.Time) (int64, error) {
	key := counterKey(userID, now)
	pipe := s.redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, keyTTL*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Used reports this month's count without changing it.
func (s *Store) Used(ctx context.Context, userID int64, now time.Time) (int64, error) {
	n, err := s.redis.Get(ctx, counterKey(userID, now)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
