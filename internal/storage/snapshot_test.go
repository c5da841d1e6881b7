package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/influencer-roi/internal/domain"
)

func setupStore(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSnapshotStore(client, 0), mr
}

func TestSnapshotStore_SetGet(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	ds := domain.Dataset{
		Influencers: []domain.Influencer{
			{InfluencerID: "INF_001", Name: "Arjun Sharma", Platform: "Instagram", FollowerCount: 250000},
		},
		Tracking: []domain.TrackingRecord{
			{TrackingID: "TRK_00001", InfluencerID: "INF_001", Orders: 1, Revenue: 2499},
		},
		Capabilities: domain.Capabilities{TrackingHasBrand: true},
	}

	require.NoError(t, store.Set(ctx, ds))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds.Influencers, got.Influencers)
	assert.Equal(t, ds.Tracking, got.Tracking)
	assert.True(t, got.Capabilities.TrackingHasBrand)
}

func TestSnapshotStore_GetMissing(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotStore_Clear(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.Dataset{}))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotStore_TTLExpires(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewSnapshotStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.Dataset{}))

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
