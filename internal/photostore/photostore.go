// Package photostore is the image storage collaborator. Implementations
// persist captured part photos and hand back stable URLs that go into
// the part record.
package photostore

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ObjectPrefix is the fixed folder all part images live under.
const ObjectPrefix = "parts_inventory_01"

type PhotoStore interface {
	// Upload stores the JPEG read from r under the given base name and
	// returns the URL to reference it by.
	Upload(ctx context.Context, name string, r io.Reader) (url string, err error)
	// Delete removes the image a previous Upload returned url for.
	Delete(ctx context.Context, url string) error
}

// FileName derives the storage base name for the n-th image (1-based) of
// a part: spaces in the part name become underscores and the index is
// suffixed, e.g. "Bolt_M6_2".
func FileName(partName string, n int) string {
	base := strings.ReplaceAll(strings.TrimSpace(partName), " ", "_")
	return fmt.Sprintf("%s_%d", base, n)
}
