package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhayanand641064/InventoryApp/internal/db"
	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
	return NewSnapshotStore(database, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReplaceAllAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	parts := []domain.Part{
		{
			ID:        "-Na1",
			PartName:  "Bolt M6",
			Quantity:  4,
			Cabinet:   "2",
			ShelfRow:  "1",
			ShelfCol:  "3",
			Remarks:   "zinc plated",
			ImageURL:  "u1",
			ImageURLs: []string{"u1", "u2"},
			CreatedAt: 1700000000000,
		},
		{ID: "-Na2", PartName: "Washer"},
	}
	require.NoError(t, s.ReplaceAll(ctx, parts))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bolt M6", got[0].PartName)
	assert.Equal(t, []string{"u1", "u2"}, got[0].ImageURLs)
	assert.Equal(t, int64(1700000000000), got[0].CreatedAt)
	assert.Equal(t, "Washer", got[1].PartName)
	assert.Empty(t, got[1].ImageURLs)
}

func TestReplaceAllIsWholesale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, []domain.Part{
		{ID: "a", PartName: "Bolt M6"},
		{ID: "b", PartName: "Washer"},
	}))
	require.NoError(t, s.ReplaceAll(ctx, []domain.Part{
		{ID: "c", PartName: "Nut M6"},
	}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Nut M6", got[0].PartName)
}

func TestListPreservesSnapshotOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, []domain.Part{
		{ID: "z", PartName: "third"},
		{ID: "a", PartName: "first"},
	}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].PartName)
	assert.Equal(t, "first", got[1].PartName)
}

func TestUpdatedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ts, err := s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	require.NoError(t, s.ReplaceAll(ctx, nil))
	ts, err = s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}
