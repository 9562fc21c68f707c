package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const snapshotKey = "session:current"

var ErrSnapshotNotFound = errors.New("snapshot not found")

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	Get(ctx context.Context) (*entity.Snapshot, error)
	Delete(ctx context.Context) error
}

type dbSnapshot struct {
	client *redis.Client
}

func NewSnapshotRepository(client *redis.Client) SnapshotRepository {
	return &dbSnapshot{
		client: client,
	}
}

func (that *dbSnapshot) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	if err = that.client.Set(ctx, snapshotKey, snapshotJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (that *dbSnapshot) Get(ctx context.Context) (*entity.Snapshot, error) {
	response, err := that.client.Get(ctx, snapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// Delete - removing a missing snapshot is not an error.
func (that *dbSnapshot) Delete(ctx context.Context) error {
	if err := that.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

// memSnapshot is used when Redis is disabled.
type memSnapshot struct {
	mu       sync.RWMutex
	snapshot *entity.Snapshot
}

func NewMemorySnapshotRepository() SnapshotRepository {
	return &memSnapshot{}
}

func (that *memSnapshot) Save(_ context.Context, snapshot *entity.Snapshot) error {
	stored := *snapshot

	that.mu.Lock()
	that.snapshot = &stored
	that.mu.Unlock()

	return nil
}

func (that *memSnapshot) Get(_ context.Context) (*entity.Snapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.snapshot == nil {
		return nil, ErrSnapshotNotFound
	}

	snapshot := *that.snapshot

	return &snapshot, nil
}

func (that *memSnapshot) Delete(_ context.Context) error {
	that.mu.Lock()
	that.snapshot = nil
	that.mu.Unlock()

	return nil
}
