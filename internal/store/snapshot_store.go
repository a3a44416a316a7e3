// Package store persists the projector's most recent list so the CLI
// can show something useful while offline.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

const updatedAtKey = "updated_at"

type SnapshotStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSnapshotStore(db *sql.DB, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{db: db, logger: logger}
}

// ReplaceAll swaps the cached list for the given one in a single
// transaction, preserving list order.
func (s *SnapshotStore) ReplaceAll(ctx context.Context, parts []domain.Part) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			s.logger.Error("failed to roll back snapshot transaction", "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM parts`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	for i, p := range parts {
		urls, err := json.Marshal(p.ImageURLs)
		if err != nil {
			return fmt.Errorf("failed to encode image urls for %s: %w", p.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO parts (id, part_name, quantity, cabinet_name, shelf_row, shelf_column,
				remarks, image_url, image_urls, created_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.PartName, p.Quantity, p.Cabinet, p.ShelfRow, p.ShelfCol,
			p.Remarks, p.ImageURL, string(urls), p.CreatedAt, i)
		if err != nil {
			return fmt.Errorf("failed to insert part %s: %w", p.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, updatedAtKey, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record snapshot time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// List returns the cached parts in their snapshot order.
func (s *SnapshotStore) List(ctx context.Context) ([]domain.Part, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, part_name, quantity, cabinet_name, shelf_row, shelf_column,
			remarks, image_url, image_urls, created_at
		FROM parts ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached parts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", "error", err)
		}
	}()

	var parts []domain.Part
	for rows.Next() {
		var p domain.Part
		var urls string
		if err := rows.Scan(&p.ID, &p.PartName, &p.Quantity, &p.Cabinet, &p.ShelfRow,
			&p.ShelfCol, &p.Remarks, &p.ImageURL, &urls, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached part: %w", err)
		}
		if err := json.Unmarshal([]byte(urls), &p.ImageURLs); err != nil {
			return nil, fmt.Errorf("failed to decode image urls for %s: %w", p.ID, err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached parts: %w", err)
	}
	return parts, nil
}

// UpdatedAt reports when the cache was last replaced, or the zero time
// if it never was.
func (s *SnapshotStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_meta WHERE key = ?`, updatedAtKey).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot time: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse snapshot time: %w", err)
	}
	return ts, nil
}
