package projector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingCache captures every ReplaceAll call.
type recordingCache struct {
	mu    sync.Mutex
	calls [][]domain.Part
	err   error
}

func (c *recordingCache) ReplaceAll(_ context.Context, parts []domain.Part) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, parts)
	return c.err
}

// runProjector feeds the given events through a projector and waits for
// Run to return.
func runProjector(t *testing.T, p *Projector, feed func(chan<- []domain.Part, chan<- error)) {
	t.Helper()
	snapshots := make(chan []domain.Part)
	errs := make(chan error)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(context.Background(), snapshots, errs)
	}()
	feed(snapshots, errs)
	close(snapshots)
	close(errs)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("projector did not stop")
	}
}

func TestRunReplacesListWholesale(t *testing.T) {
	p := New(nil, testLogger())
	runProjector(t, p, func(snapshots chan<- []domain.Part, _ chan<- error) {
		snapshots <- []domain.Part{{PartName: "Bolt M6"}, {PartName: "Washer"}}
		snapshots <- []domain.Part{{PartName: "Nut M6"}}
	})

	parts := p.Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, "Nut M6", parts[0].PartName)
	assert.Empty(t, p.LastError())
}

func TestFilteredFollowsQueryAndList(t *testing.T) {
	p := New(nil, testLogger())
	runProjector(t, p, func(snapshots chan<- []domain.Part, _ chan<- error) {
		snapshots <- []domain.Part{
			{PartName: "Bolt M6"},
			{PartName: "Nut M6"},
			{PartName: "Washer"},
		}
	})

	p.SetQuery("m6")
	filtered := p.Filtered()
	require.Len(t, filtered, 2)
	assert.Equal(t, "Bolt M6", filtered[0].PartName)
	assert.Equal(t, "Nut M6", filtered[1].PartName)

	p.SetQuery("")
	assert.Len(t, p.Filtered(), 3)
}

func TestSubscriptionErrorIsExposed(t *testing.T) {
	p := New(nil, testLogger())
	runProjector(t, p, func(snapshots chan<- []domain.Part, errs chan<- error) {
		snapshots <- []domain.Part{{PartName: "Bolt M6"}}
		errs <- errors.New("subscription cancelled by server: cancel")
	})

	// The last list survives the failure.
	assert.Len(t, p.Parts(), 1)
	assert.Equal(t, "subscription cancelled by server: cancel", p.LastError())
}

func TestErrorClearsOnNextSnapshot(t *testing.T) {
	p := New(nil, testLogger())
	runProjector(t, p, func(snapshots chan<- []domain.Part, errs chan<- error) {
		errs <- errors.New("boom")
		snapshots <- []domain.Part{{PartName: "Washer"}}
	})
	assert.Empty(t, p.LastError())
}

func TestSnapshotPersistsToCache(t *testing.T) {
	cache := &recordingCache{}
	p := New(cache, testLogger())
	runProjector(t, p, func(snapshots chan<- []domain.Part, _ chan<- error) {
		snapshots <- []domain.Part{{PartName: "Bolt M6"}}
	})

	cache.mu.Lock()
	defer cache.mu.Unlock()
	require.Len(t, cache.calls, 1)
	assert.Equal(t, "Bolt M6", cache.calls[0][0].PartName)
}

func TestCacheFailureDoesNotBreakList(t *testing.T) {
	cache := &recordingCache{err: errors.New("disk full")}
	p := New(cache, testLogger())
	runProjector(t, p, func(snapshots chan<- []domain.Part, _ chan<- error) {
		snapshots <- []domain.Part{{PartName: "Bolt M6"}}
	})
	assert.Len(t, p.Parts(), 1)
	assert.Empty(t, p.LastError())
}

func TestOnChangeFires(t *testing.T) {
	p := New(nil, testLogger())
	var mu sync.Mutex
	fired := 0
	p.OnChange(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	runProjector(t, p, func(snapshots chan<- []domain.Part, errs chan<- error) {
		snapshots <- []domain.Part{{PartName: "Bolt M6"}}
		errs <- errors.New("boom")
	})
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, fired)
}
