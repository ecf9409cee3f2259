package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlotRepository keeps session slots as Redis strings that expire after
// the session TTL.
type RedisSlotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotRepository constructs the repository. A non-positive ttl keeps
// slots forever.
func NewRedisSlotRepository(client *redis.Client, ttl time.Duration) *RedisSlotRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSlotRepository{client: client, ttl: ttl}
}

// Get returns the slot value and whether it exists.
func (r *RedisSlotRepository) Get(ctx context.Context, sessionID, slot string) (string, bool, error) {
	value, err := r.client.Get(ctx, slotKey(sessionID, slot)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get slot %s: %w", slot, err)
	}
	return value, true, nil
}

// Set writes the slot value and refreshes its expiry.
func (r *RedisSlotRepository) Set(ctx context.Context, sessionID, slot, value string) error {
	if err := r.client.Set(ctx, slotKey(sessionID, slot), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set slot %s: %w", slot, err)
	}
	return nil
}

// Remove deletes the slot.
func (r *RedisSlotRepository) Remove(ctx context.Context, sessionID, slot string) error {
	if err := r.client.Del(ctx, slotKey(sessionID, slot)).Err(); err != nil {
		return fmt.Errorf("redis delete slot %s: %w", slot, err)
	}
	return nil
}

func slotKey(sessionID, slot string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, slot)
}
