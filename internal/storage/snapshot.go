// Package storage keeps the working dataset as a JSON snapshot in
// Redis so multiple server instances serve metrics from the same data
// without re-reading CSVs.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/influencer-roi/internal/domain"
)

const snapshotKey = "roi:dataset:current"

// ErrNoSnapshot is returned by Get when no dataset has been stored.
var ErrNoSnapshot = errors.New("no dataset snapshot stored")

// SnapshotStore stores the current dataset in Redis.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotStore creates a store. A zero ttl means snapshots never
// expire.
func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

// Connect dials Redis at addr and verifies the connection.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Try as host:port format
		opts = &redis.Options{Addr: addr, Password: password}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Set replaces the current snapshot.
func (s *SnapshotStore) Set(ctx context.Context, ds domain.Dataset) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Get reads the current snapshot.
func (s *SnapshotStore) Get(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	payload, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return ds, ErrNoSnapshot
	}
	if err != nil {
		return ds, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(payload, &ds); err != nil {
		return ds, fmt.Errorf("decode snapshot: %w", err)
	}
	return ds, nil
}

// Clear removes the stored snapshot.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
