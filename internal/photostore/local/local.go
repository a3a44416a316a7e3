// Package local keeps part images on the local filesystem, mirroring the
// bucket layout. Used for development and offline runs.
package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dhayanand641064/InventoryApp/internal/photostore"
)

type Store struct {
	basePath string
	logger   *slog.Logger
}

func New(basePath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Join(basePath, photostore.ObjectPrefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &Store{basePath: basePath, logger: logger}, nil
}

// Upload writes the image under the prefix directory. A short random
// suffix keeps repeated uploads of the same name from clobbering each
// other, which the remote bucket tolerates but a dev tree should not.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	filename := fmt.Sprintf("%s_%s.jpg", name, uuid.NewString()[:8])
	path := filepath.Join(s.basePath, photostore.ObjectPrefix, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			s.logger.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(path); rerr != nil {
			s.logger.Error("failed to remove file after write error", "error", rerr)
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: abs}).String(), nil
}

func (s *Store) Delete(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "file" {
		return fmt.Errorf("unrecognized image url: %s", rawURL)
	}

	path, err := s.safePath(u.Path)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("photo not found")
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// safePath rejects paths outside the store's base directory.
func (s *Store) safePath(p string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(abs, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes photo directory")
	}
	return abs, nil
}
