package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
)

// adventureKeyPrefix namespaces saved adventure keys in Redis.
const adventureKeyPrefix = "adventure:"

// RedisStore implements the Store interface using Redis.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStore implements Store interface
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis store instance
func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStore) SaveAdventure(ctx context.Context, sa *adventure.SavedAdventure) error {
	if sa == nil {
		return fmt.Errorf("saved adventure cannot be nil")
	}
	if sa.ID == uuid.Nil {
		return fmt.Errorf("saved adventure id cannot be nil")
	}

	data, err := json.Marshal(sa)
	if err != nil {
		r.logger.Error("Failed to marshal adventure", "uuid", sa.ID, "error", err)
		return fmt.Errorf("failed to marshal adventure: %w", err)
	}

	key := adventureKeyPrefix + sa.ID.String()
	if err := r.client.Set(ctx, key, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save adventure", "uuid", sa.ID, "error", err)
		return fmt.Errorf("failed to save adventure: %w", err)
	}

	return nil
}

func (r *RedisStore) GetAdventure(ctx context.Context, id uuid.UUID) (*adventure.SavedAdventure, error) {
	key := adventureKeyPrefix + id.String()
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Warn("Adventure not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load adventure", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load adventure: %w", err)
	}

	var sa adventure.SavedAdventure
	if err := json.Unmarshal([]byte(data), &sa); err != nil {
		r.logger.Error("Failed to unmarshal adventure", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal adventure: %w", err)
	}

	return &sa, nil
}

func (r *RedisStore) ListAdventures(ctx context.Context) ([]adventure.SavedAdventure, error) {
	var out []adventure.SavedAdventure
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, adventureKeyPrefix+"*", 100).Result()
		if err != nil {
			r.logger.Error("Failed to scan adventure keys", "error", err)
			return nil, fmt.Errorf("failed to list adventures: %w", err)
		}

		for _, key := range keys {
			data, err := r.client.Get(ctx, key).Result()
			if err != nil {
				if err == redis.Nil {
					continue // deleted between scan and get
				}
				return nil, fmt.Errorf("failed to load adventure %s: %w", key, err)
			}

			var sa adventure.SavedAdventure
			if err := json.Unmarshal([]byte(data), &sa); err != nil {
				r.logger.Warn("Skipping malformed adventure record", "key", key, "error", err)
				continue
			}
			out = append(out, sa)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return out, nil
}

func (r *RedisStore) DeleteAdventure(ctx context.Context, id uuid.UUID) error {
	key := adventureKeyPrefix + id.String()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete adventure", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete adventure: %w", err)
	}
	return nil
}
