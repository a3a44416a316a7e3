// Package firebase stores part images in the project's Firebase Storage
// bucket under the fixed parts_inventory_01/ prefix.
package firebase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	"github.com/dhayanand641064/InventoryApp/internal/photostore"
)

type Store struct {
	bucket     *storage.BucketHandle
	bucketName string
	logger     *slog.Logger
}

// New resolves the app's default storage bucket, or bucketName when it
// is non-empty.
func New(ctx context.Context, app *firebase.App, bucketName string, logger *slog.Logger) (*Store, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	var bucket *storage.BucketHandle
	if bucketName != "" {
		bucket, err = client.Bucket(bucketName)
	} else {
		bucket, err = client.DefaultBucket()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage bucket: %w", err)
	}

	attrs, err := bucket.Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read bucket attributes: %w", err)
	}

	return &Store{bucket: bucket, bucketName: attrs.Name, logger: logger}, nil
}

func (s *Store) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	key := objectKey(name)
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = "image/jpeg"

	if _, err := io.Copy(w, r); err != nil {
		// Abandon the partial write; Close would otherwise commit it.
		if cerr := w.Close(); cerr != nil {
			s.logger.Debug("failed to close aborted object writer", "key", key, "error", cerr)
		}
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload of %s: %w", key, err)
	}
	return downloadURL(s.bucketName, key), nil
}

func (s *Store) Delete(ctx context.Context, rawURL string) error {
	key, err := urlToObjectKey(rawURL)
	if err != nil {
		return err
	}
	if err := s.bucket.Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func objectKey(name string) string {
	return fmt.Sprintf("%s/%s.jpg", photostore.ObjectPrefix, name)
}

// downloadURL builds the public Firebase Storage media URL for an
// object. The bucket rules are open, so no access token is appended.
func downloadURL(bucket, key string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		bucket, url.PathEscape(key))
}

// urlToObjectKey recovers the object key from a URL produced by
// downloadURL.
func urlToObjectKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse image url: %w", err)
	}
	const marker = "/o/"
	p := u.EscapedPath()
	idx := strings.Index(p, marker)
	if idx < 0 {
		return "", fmt.Errorf("unrecognized image url: %s", rawURL)
	}
	key, err := url.PathUnescape(p[idx+len(marker):])
	if err != nil {
		return "", fmt.Errorf("failed to unescape image url: %w", err)
	}
	return key, nil
}
