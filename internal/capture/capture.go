// Package capture accumulates locally captured photos for an in-progress
// form, ahead of upload by the submission pipeline.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

var (
	// ErrAtCapacity is returned when a capture would exceed MaxImages.
	ErrAtCapacity = fmt.Errorf("at most %d photos can be attached to a part", domain.MaxImages)
	// ErrCaptureInFlight is returned when a capture is requested while a
	// previous one has not finished.
	ErrCaptureInFlight = errors.New("a capture is already in progress")
)

// ImageRef points at a captured image in local storage.
type ImageRef struct {
	Path string
}

// Open returns a reader over the image bytes.
func (r ImageRef) Open() (io.ReadCloser, error) {
	return os.Open(r.Path)
}

// FromFile builds an ImageRef for an existing local file.
func FromFile(path string) (ImageRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ImageRef{}, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return ImageRef{}, fmt.Errorf("%s is a directory, not an image", path)
	}
	return ImageRef{Path: path}, nil
}

// Source is the external capture collaborator (camera flow). It blocks
// until the user produced an image or the flow failed.
type Source interface {
	Capture(ctx context.Context) (ImageRef, error)
}

// FileSource is a Source that hands out a fixed set of local files in
// order, for scripted and test use.
type FileSource struct {
	mu    sync.Mutex
	paths []string
	next  int
}

func NewFileSource(paths []string) *FileSource {
	return &FileSource{paths: paths}
}

func (s *FileSource) Capture(ctx context.Context) (ImageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.paths) {
		return ImageRef{}, errors.New("no more images available")
	}
	ref, err := FromFile(s.paths[s.next])
	if err != nil {
		return ImageRef{}, err
	}
	s.next++
	return ref, nil
}

// Coordinator owns the pending images of one open form. It enforces the
// per-part cap and allows only a single capture in flight at a time.
type Coordinator struct {
	mu        sync.Mutex
	capturing bool
	refs      []ImageRef
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Capture runs the source's capture flow and appends the result. The cap
// is checked before triggering the flow so a rejected attempt leaves the
// pending set unchanged.
func (c *Coordinator) Capture(ctx context.Context, src Source) error {
	c.mu.Lock()
	if c.capturing {
		c.mu.Unlock()
		return ErrCaptureInFlight
	}
	if len(c.refs) >= domain.MaxImages {
		c.mu.Unlock()
		return ErrAtCapacity
	}
	c.capturing = true
	c.mu.Unlock()

	ref, err := src.Capture(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.capturing = false
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	if len(c.refs) >= domain.MaxImages {
		return ErrAtCapacity
	}
	c.refs = append(c.refs, ref)
	return nil
}

// Add appends an already-captured image, subject to the same cap.
func (c *Coordinator) Add(ref ImageRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.refs) >= domain.MaxImages {
		return ErrAtCapacity
	}
	c.refs = append(c.refs, ref)
	return nil
}

// Remove deletes a pending image by value. Removing an unknown ref is a
// no-op.
func (c *Coordinator) Remove(ref ImageRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, r := range c.refs {
		if r == ref {
			c.refs = append(c.refs[:i], c.refs[i+1:]...)
			return
		}
	}
}

// List returns a copy of the pending images in capture order.
func (c *Coordinator) List() []ImageRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ImageRef, len(c.refs))
	copy(out, c.refs)
	return out
}

// Len reports the number of pending images.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.refs)
}

// Reset clears the pending set. Called when the owning form closes,
// whether cancelled or submitted.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs = nil
}
