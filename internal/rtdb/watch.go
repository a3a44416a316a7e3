package rtdb

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

// Watch subscribes to change notifications on the parts collection over
// the database's event-stream endpoint. Every put or patch event is
// projected as a full-collection snapshot on the returned channel; the
// consumer replaces its list wholesale. Stream cancellation or transport
// failure is reported once on the error channel and the subscription
// ends; there is no automatic retry. Both channels are closed when the
// stream ends or ctx is cancelled.
func (s *PartStore) Watch(ctx context.Context) (<-chan []domain.Part, <-chan error, error) {
	url := fmt.Sprintf("%s/%s.json", s.baseURL, partsPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	snapshots := make(chan []domain.Part, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(snapshots)
		defer close(errs)
		defer func() {
			if err := resp.Body.Close(); err != nil {
				s.logger.Error("failed to close event stream body", "error", err)
			}
		}()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for {
			name, _, ok := nextEvent(scanner)
			if !ok {
				if err := scanner.Err(); err != nil && ctx.Err() == nil {
					sendErr(ctx, errs, fmt.Errorf("event stream read failed: %w", err))
				}
				return
			}

			switch name {
			case "put", "patch":
				// The event payload only carries the changed subtree, so
				// reread the whole collection and replace. O(n) per
				// update, fine at this collection's scale.
				parts, err := s.All(ctx)
				if err != nil {
					if ctx.Err() == nil {
						sendErr(ctx, errs, err)
					}
					return
				}
				select {
				case snapshots <- parts:
				case <-ctx.Done():
					return
				}
			case "cancel", "auth_revoked":
				sendErr(ctx, errs, fmt.Errorf("subscription cancelled by server: %s", name))
				return
			case "keep-alive":
				// ignore
			}
		}
	}()

	return snapshots, errs, nil
}

// nextEvent scans one server-sent event, returning its name and data
// line. ok is false at end of stream.
func nextEvent(scanner *bufio.Scanner) (name, data string, ok bool) {
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "":
			if name != "" {
				return name, data, true
			}
		}
	}
	return "", "", false
}

func sendErr(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}
