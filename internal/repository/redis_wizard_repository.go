package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

const scanBatch = 100

// RedisWizardRepository keeps multi-step form snapshots in Redis as JSON
// documents that expire with their TTL.
type RedisWizardRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisWizardRepository constructs the repository.
func NewRedisWizardRepository(client *redis.Client, logger *zap.Logger) *RedisWizardRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisWizardRepository{client: client, logger: logger}
}

// Get decodes the snapshot under key into dest. Missing or expired keys
// report appErrors.ErrCacheMiss.
func (r *RedisWizardRepository) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal wizard snapshot %s: %w", key, err)
	}
	return nil
}

// Set stores value under key, refreshing its TTL.
func (r *RedisWizardRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal wizard snapshot %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a single snapshot.
func (r *RedisWizardRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every snapshot whose key starts with prefix and
// returns how many were dropped.
func (r *RedisWizardRepository) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := prefix + "*"
	iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("redis delete %s: %w", pattern, err)
	}
	r.logger.Debug("wizard snapshots dropped", zap.String("prefix", prefix), zap.Int("count", len(keys)))
	return len(keys), nil
}
