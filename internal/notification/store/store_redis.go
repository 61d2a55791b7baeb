package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"complimart/internal/notification"
)

// Redis is the production store. One Redis string per partition keeps the
// layout identical to the other backends; writes go through MSET so one save
// lands atomically.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Load(ctx context.Context, identity string) (notification.StoreState, error) {
	values, err := s.client.MGet(ctx,
		notificationsKey(identity),
		dismissedKey(identity),
		generatedKey(identity),
	).Result()
	if err != nil {
		return notification.StoreState{}, fmt.Errorf("redis mget: %w", err)
	}
	return decodeState(rawValue(values, 0), rawValue(values, 1), rawValue(values, 2)), nil
}

func (s *Redis) Save(ctx context.Context, identity string, state notification.StoreState) error {
	notifications, dismissed, generated, err := encodeState(normalize(state))
	if err != nil {
		return err
	}
	if err := s.client.MSet(ctx,
		notificationsKey(identity), notifications,
		dismissedKey(identity), dismissed,
		generatedKey(identity), generated,
	).Err(); err != nil {
		return fmt.Errorf("redis mset: %w", err)
	}
	return nil
}

func (s *Redis) Reset(ctx context.Context, identity string) error {
	if err := s.client.Del(ctx,
		notificationsKey(identity),
		dismissedKey(identity),
		generatedKey(identity),
	).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// rawValue converts one MGET result slot to bytes; nil (missing key) and
// unexpected types decode as an absent partition.
func rawValue(values []any, i int) []byte {
	if i >= len(values) {
		return nil
	}
	if s, ok := values[i].(string); ok {
		return []byte(s)
	}
	return nil
}
