// Package rtdb is the remote database collaborator: a thin wrapper over
// the Firebase Realtime Database holding the parts collection at
// parts/{id}.
package rtdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"

	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

// partsPath is the flat collection root in the database.
const partsPath = "parts"

// serverTimestamp is the RTDB sentinel the server replaces with its own
// clock in milliseconds.
var serverTimestamp = map[string]string{".sv": "timestamp"}

type PartStore struct {
	ref     *db.Ref
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewPartStore connects to the app's Realtime Database. databaseURL is
// also needed in raw form for the event-stream endpoint Watch uses.
func NewPartStore(ctx context.Context, app *firebase.App, databaseURL string, logger *slog.Logger) (*PartStore, error) {
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}

	return &PartStore{
		ref:     client.NewRef(partsPath),
		baseURL: strings.TrimRight(databaseURL, "/"),
		httpc:   &http.Client{},
		logger:  logger,
	}, nil
}

// partRecord is the write-side shape of a Part. CreatedAt is widened so
// a new record can carry the server-timestamp sentinel instead of a
// client clock reading.
type partRecord struct {
	ID        string   `json:"id"`
	PartName  string   `json:"partName"`
	Quantity  int      `json:"quantity"`
	Cabinet   string   `json:"cabinetName"`
	ShelfRow  string   `json:"shelfRow"`
	ShelfCol  string   `json:"shelfColumn"`
	Remarks   string   `json:"remarks"`
	ImageURL  string   `json:"imageUrl"`
	ImageURLs []string `json:"imageUrls,omitempty"`
	CreatedAt any      `json:"createdAt"`
}

func toRecord(p domain.Part) partRecord {
	rec := partRecord{
		ID:        p.ID,
		PartName:  p.PartName,
		Quantity:  p.Quantity,
		Cabinet:   p.Cabinet,
		ShelfRow:  p.ShelfRow,
		ShelfCol:  p.ShelfCol,
		Remarks:   p.Remarks,
		ImageURL:  p.ImageURL,
		ImageURLs: p.ImageURLs,
		CreatedAt: p.CreatedAt,
	}
	if p.CreatedAt == 0 {
		rec.CreatedAt = serverTimestamp
	}
	return rec
}

// Create reserves a push key, stamps it into the record, and writes the
// record under it. Push keys sort chronologically, which is the order
// the list is displayed in.
func (s *PartStore) Create(ctx context.Context, p domain.Part) (string, error) {
	child, err := s.ref.Push(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to allocate part key: %w", err)
	}
	p.ID = child.Key
	if err := child.Set(ctx, toRecord(p)); err != nil {
		return "", fmt.Errorf("failed to write part: %w", err)
	}
	return child.Key, nil
}

// Replace overwrites the whole record at id.
func (s *PartStore) Replace(ctx context.Context, id string, p domain.Part) error {
	p.ID = id
	if err := s.ref.Child(id).Set(ctx, toRecord(p)); err != nil {
		return fmt.Errorf("failed to replace part %s: %w", id, err)
	}
	return nil
}

// Get reads one record. A missing id returns (nil, nil).
func (s *PartStore) Get(ctx context.Context, id string) (*domain.Part, error) {
	var raw json.RawMessage
	if err := s.ref.Child(id).Get(ctx, &raw); err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", id, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var p domain.Part
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode part %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

// Delete removes the record at id. Deleting a missing id is not an
// error, matching RTDB semantics.
func (s *PartStore) Delete(ctx context.Context, id string) error {
	if err := s.ref.Child(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete part %s: %w", id, err)
	}
	return nil
}

// All reads the entire collection as an ordered list.
func (s *PartStore) All(ctx context.Context) ([]domain.Part, error) {
	var raw map[string]json.RawMessage
	if err := s.ref.Get(ctx, &raw); err != nil {
		return nil, fmt.Errorf("failed to read parts: %w", err)
	}
	return decodeSnapshot(raw, s.logger), nil
}

// decodeSnapshot materializes a full-collection snapshot into an ordered
// part list. Children that fail to decode are dropped; the rest of the
// snapshot still applies.
func decodeSnapshot(raw map[string]json.RawMessage, logger *slog.Logger) []domain.Part {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]domain.Part, 0, len(raw))
	for _, k := range keys {
		var p domain.Part
		if err := json.Unmarshal(raw[k], &p); err != nil {
			if logger != nil {
				logger.Debug("dropping undecodable part", "key", k, "error", err)
			}
			continue
		}
		if p.ID == "" {
			p.ID = k
		}
		parts = append(parts, p)
	}
	return parts
}
