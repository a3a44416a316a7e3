// Package projector materializes the remote parts collection into a
// local, searchable list. It is the only writer of that list; everything
// else reads it.
package projector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

// snapshotCache is the subset of store.SnapshotStore the projector needs
// to persist each materialized list. May be nil.
type snapshotCache interface {
	ReplaceAll(ctx context.Context, parts []domain.Part) error
}

type Projector struct {
	mu       sync.RWMutex
	parts    []domain.Part
	query    string
	lastErr  string
	onChange func()

	cache  snapshotCache
	logger *slog.Logger
}

func New(cache snapshotCache, logger *slog.Logger) *Projector {
	return &Projector{cache: cache, logger: logger}
}

// OnChange registers a hook invoked after every list replace or error.
// Must be set before Run.
func (p *Projector) OnChange(fn func()) {
	p.onChange = fn
}

// Run consumes snapshot and error events until both channels are closed
// or ctx is cancelled. Every snapshot replaces the list wholesale; there
// is no diffing. An error ends the subscription; the projector keeps
// its last list and exposes the error, it does not retry.
func (p *Projector) Run(ctx context.Context, snapshots <-chan []domain.Part, errs <-chan error) {
	for snapshots != nil || errs != nil {
		select {
		case <-ctx.Done():
			return
		case parts, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			p.replace(ctx, parts)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			p.setError(err)
		}
	}
}

func (p *Projector) replace(ctx context.Context, parts []domain.Part) {
	p.mu.Lock()
	p.parts = parts
	p.lastErr = ""
	p.mu.Unlock()

	if p.cache != nil {
		if err := p.cache.ReplaceAll(ctx, parts); err != nil {
			p.logger.Warn("failed to persist snapshot cache", "error", err)
		}
	}
	p.logger.Debug("list replaced", "parts", len(parts))
	p.notify()
}

func (p *Projector) setError(err error) {
	p.mu.Lock()
	p.lastErr = err.Error()
	p.mu.Unlock()
	p.logger.Error("subscription failed", "error", err)
	p.notify()
}

func (p *Projector) notify() {
	if p.onChange != nil {
		p.onChange()
	}
}

// SetQuery updates the active filter. The next Filtered call reflects
// it; a blank query clears the filter.
func (p *Projector) SetQuery(q string) {
	p.mu.Lock()
	p.query = q
	p.mu.Unlock()
}

// Parts returns a copy of the unfiltered list.
func (p *Projector) Parts() []domain.Part {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Part, len(p.parts))
	copy(out, p.parts)
	return out
}

// Filtered returns a copy of the list with the active query applied.
func (p *Projector) Filtered() []domain.Part {
	p.mu.RLock()
	defer p.mu.RUnlock()
	filtered := domain.FilterByName(p.parts, p.query)
	out := make([]domain.Part, len(filtered))
	copy(out, filtered)
	return out
}

// LastError returns the user-visible error from the most recent
// subscription failure, or "" when the subscription is healthy.
func (p *Projector) LastError() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}
