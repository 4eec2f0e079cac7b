// Package redis provides a session context snapshot store backed by Redis,
// so a live session can be recovered after a process restart.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxline/scriptflow/pkg/log"
	"github.com/voxline/scriptflow/pkg/models"
)

// ErrSnapshotNotFound indicates no snapshot exists for the session.
var ErrSnapshotNotFound = errors.New("session snapshot not found")

const keyPrefix = "scriptflow:session:"

// DefaultTTL bounds how long an abandoned session survives. Active sessions
// refresh the TTL on every save.
const DefaultTTL = 24 * time.Hour

// SnapshotStore stores one JSON-encoded turn context per live session.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotStore connects to Redis at the given address. A zero ttl
// selects DefaultTTL.
func NewSnapshotStore(addr, password string, db int, ttl time.Duration) *SnapshotStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return NewSnapshotStoreFromClient(client, ttl)
}

// NewSnapshotStoreFromClient wraps an existing client. Used by tests.
func NewSnapshotStoreFromClient(client *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &SnapshotStore{
		client: client,
		ttl:    ttl,
		logger: log.WithModule("redis-snapshots"),
	}
}

// Save writes the session snapshot and refreshes its TTL.
func (s *SnapshotStore) Save(ctx context.Context, turnContext *models.TurnContext) error {
	payload, err := json.Marshal(turnContext)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}

	err = s.client.Set(ctx, keyPrefix+turnContext.SessionID, payload, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store session snapshot: %w", err)
	}

	return nil
}

// Load restores a session snapshot.
func (s *SnapshotStore) Load(ctx context.Context, sessionID string) (*models.TurnContext, error) {
	payload, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, sessionID)
		}

		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}

	var turnContext models.TurnContext
	if err := json.Unmarshal(payload, &turnContext); err != nil {
		return nil, fmt.Errorf("failed to decode session snapshot: %w", err)
	}

	return &turnContext, nil
}

// Delete removes the snapshot once the session ends. Deleting a missing
// snapshot is not an error.
func (s *SnapshotStore) Delete(ctx context.Context, sessionID string) error {
	err := s.client.Del(ctx, keyPrefix+sessionID).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}

	return nil
}

// HealthCheck verifies the Redis connection.
func (s *SnapshotStore) HealthCheck(ctx context.Context) error {
	err := s.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Close releases the underlying client.
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
