package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/encounter-engine/pkg/profile"
)

const (
	sessionKeyPrefix = "encounter:"
	sessionLatestKey = "encounter:latest"
	profileKeyPrefix = "profile:"
	profileIndexKey  = "profiles"

	// Sessions outlive a play sitting but not an abandoned one.
	sessionTTL = 72 * time.Hour
)

// RedisStorage implements the Storage interface using Redis
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStorage{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
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

// Session snapshot operations

func (r *RedisStorage) SaveSession(ctx context.Context, id uuid.UUID, snap *Snapshot) error {
	snap.SchemaVersion = SchemaVersion
	if snap.Session != nil {
		snap.Session.UpdatedAt = time.Now()
	}

	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("Failed to marshal session snapshot", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	key := sessionKeyPrefix + id.String()
	if err := r.client.Set(ctx, key, string(data), sessionTTL).Err(); err != nil {
		r.logger.Error("Failed to save session snapshot", "uuid", id, "error", err)
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}

	if err := r.client.Set(ctx, sessionLatestKey, id.String(), sessionTTL).Err(); err != nil {
		r.logger.Error("Failed to update latest session pointer", "uuid", id, "error", err)
		return fmt.Errorf("failed to update latest session pointer: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	key := sessionKeyPrefix + id.String()
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Warn("Session snapshot not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session snapshot", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		r.logger.Error("Failed to unmarshal session snapshot", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session snapshot: %w", err)
	}

	// An unknown schema version is treated as absent, not coerced.
	if snap.SchemaVersion != SchemaVersion {
		r.logger.Warn("Session snapshot has unknown schema version, treating as absent",
			"uuid", id, "version", snap.SchemaVersion)
		return nil, nil
	}

	return &snap, nil
}

func (r *RedisStorage) LoadLatestSession(ctx context.Context) (*Snapshot, error) {
	idStr, err := r.client.Get(ctx, sessionLatestKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest session pointer: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		r.logger.Warn("Latest session pointer is not a valid uuid", "value", idStr)
		return nil, nil
	}

	return r.LoadSession(ctx, id)
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	key := sessionKeyPrefix + id.String()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete session snapshot", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}

	// Clear the latest pointer if it referenced this session.
	idStr, err := r.client.Get(ctx, sessionLatestKey).Result()
	if err == nil && idStr == id.String() {
		if err := r.client.Del(ctx, sessionLatestKey).Err(); err != nil {
			return fmt.Errorf("failed to clear latest session pointer: %w", err)
		}
	}

	return nil
}

// Profile operations

func (r *RedisStorage) SaveProfile(ctx context.Context, p *profile.Profile) error {
	if p.ID == "" {
		return fmt.Errorf("profile id cannot be empty")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	key := profileKeyPrefix + p.ID
	if err := r.client.Set(ctx, key, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save profile", "id", p.ID, "error", err)
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if err := r.client.SAdd(ctx, profileIndexKey, p.ID).Err(); err != nil {
		return fmt.Errorf("failed to index profile: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadProfile(ctx context.Context, id string) (*profile.Profile, error) {
	key := profileKeyPrefix + id
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

func (r *RedisStorage) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	ids, err := r.client.SMembers(ctx, profileIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]profile.Profile, 0, len(ids))
	for _, id := range ids {
		p, err := r.LoadProfile(ctx, id)
		if err != nil {
			r.logger.Warn("Failed to load indexed profile", "id", id, "error", err)
			continue
		}
		if p != nil {
			profiles = append(profiles, *p)
		}
	}
	return profiles, nil
}
