// Package cache provides the Redis-backed catalog snapshot cache. The
// snapshot (all products plus all categories) is what the in-memory facet
// engine queries; caching it keeps listing requests off the database between
// writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maisonarte/catalog-service/internal/domain"
)

// snapshotKey is versioned so a schema change invalidates stale entries on
// deploy instead of failing to decode them.
const snapshotKey = "catalog:snapshot:v1"

// ErrMiss is returned when no snapshot is cached.
var ErrMiss = errors.New("snapshot cache miss")

// Snapshot is the cached catalog state.
type Snapshot struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
	CachedAt   time.Time         `json:"cached_at"`
}

// SnapshotStore defines the snapshot cache operations the service layer
// depends on.
type SnapshotStore interface {
	Get(ctx context.Context) (*Snapshot, error)
	Set(ctx context.Context, snapshot *Snapshot) error
	Invalidate(ctx context.Context) error
}

// RedisSnapshotStore implements SnapshotStore on Redis.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisSnapshotStore creates a snapshot store with the given TTL. The TTL
// is a safety net against missed invalidations; writes invalidate explicitly.
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached snapshot, or ErrMiss when none is cached. A corrupt
// entry is treated as a miss and dropped.
func (s *RedisSnapshotStore) Get(ctx context.Context) (*Snapshot, error) {
	payload, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		s.logger.WarnContext(ctx, "dropping undecodable snapshot cache entry",
			slog.String("error", err.Error()),
		)
		if delErr := s.client.Del(ctx, snapshotKey).Err(); delErr != nil {
			s.logger.WarnContext(ctx, "failed to drop snapshot cache entry",
				slog.String("error", delErr.Error()),
			)
		}
		return nil, ErrMiss
	}

	return &snapshot, nil
}

// Set stores the snapshot.
func (s *RedisSnapshotStore) Set(ctx context.Context, snapshot *Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, snapshotKey, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}

	return nil
}

// Invalidate removes the cached snapshot.
func (s *RedisSnapshotStore) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("invalidate snapshot: %w", err)
	}
	return nil
}
