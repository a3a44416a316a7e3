// Package service coordinates the collaborators for each user-triggered
// part operation: submit, update, delete. Each call is one cancellable
// unit of work with its own deadline.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode"

	"github.com/dhayanand641064/InventoryApp/internal/capture"
	"github.com/dhayanand641064/InventoryApp/internal/domain"
	"github.com/dhayanand641064/InventoryApp/internal/draft"
	"github.com/dhayanand641064/InventoryApp/internal/photostore"
)

const (
	submitTimeout = 60 * time.Second
	updateTimeout = 15 * time.Second
)

var (
	// ErrBusy means the same kind of operation is already in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrTimeout wraps a deadline expiry on any remote call.
	ErrTimeout = errors.New("operation timed out")
)

// partStore is the subset of rtdb.PartStore the service requires.
type partStore interface {
	Create(ctx context.Context, p domain.Part) (string, error)
	Replace(ctx context.Context, id string, p domain.Part) error
	Get(ctx context.Context, id string) (*domain.Part, error)
	Delete(ctx context.Context, id string) error
}

// Progress receives fine-grained status text during a submission.
type Progress func(msg string)

type PartService struct {
	parts  partStore
	photos photostore.PhotoStore
	logger *slog.Logger

	// Hard double-submit guards, one per operation kind. A disabled
	// button is a soft guard; the service refuses a second concurrent
	// call outright.
	submitMu sync.Mutex
	updateMu sync.Mutex

	submitTimeout time.Duration
	updateTimeout time.Duration
}

func NewPartService(parts partStore, photos photostore.PhotoStore, logger *slog.Logger) *PartService {
	return &PartService{
		parts:         parts,
		photos:        photos,
		logger:        logger,
		submitTimeout: submitTimeout,
		updateTimeout: updateTimeout,
	}
}

// Submit uploads the pending images in capture order, then writes the
// part record referencing the resulting URLs, all under one deadline.
// The first upload failure aborts the whole submission; images uploaded
// before the failure stay in storage (no rollback), and the caller's
// pending set is untouched so a retry needs no recapture.
func (s *PartService) Submit(ctx context.Context, d draft.Draft, images []capture.ImageRef, progress Progress) (*domain.Part, error) {
	if !s.submitMu.TryLock() {
		return nil, ErrBusy
	}
	defer s.submitMu.Unlock()

	if err := d.ValidateForAdd(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	p := d.ToPart()
	urls := make([]string, 0, len(images))
	for i, ref := range images {
		report(progress, fmt.Sprintf("Uploading image %d of %d...", i+1, len(images)))
		url, err := s.uploadOne(ctx, p.PartName, i+1, ref)
		if err != nil {
			return nil, classify(fmt.Errorf("failed to upload image %d of %d: %w", i+1, len(images), err))
		}
		urls = append(urls, url)
	}

	if len(urls) > 0 {
		p.ImageURLs = urls
		p.ImageURL = urls[0]
	}

	report(progress, "Saving part...")
	id, err := s.parts.Create(ctx, p)
	if err != nil {
		return nil, classify(err)
	}
	p.ID = id

	s.logger.Info("part created", "id", id, "name", p.PartName, "images", len(urls))
	return &p, nil
}

func (s *PartService) uploadOne(ctx context.Context, partName string, n int, ref capture.ImageRef) (string, error) {
	r, err := ref.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", ref.Path, err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			s.logger.Error("failed to close image file", "path", ref.Path, "error", err)
		}
	}()
	return s.photos.Upload(ctx, photostore.FileName(partName, n), r)
}

// Update validates the edited draft and replaces the remote record,
// carrying the original's image fields and creation time through
// verbatim. Editing never touches images.
func (s *PartService) Update(ctx context.Context, original domain.Part, d draft.Draft) (*domain.Part, error) {
	if !s.updateMu.TryLock() {
		return nil, ErrBusy
	}
	defer s.updateMu.Unlock()

	if original.ID == "" {
		return nil, errors.New("part has no id")
	}
	if err := d.ValidateForEdit(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.updateTimeout)
	defer cancel()

	next := d.ApplyTo(original)
	if err := s.parts.Replace(ctx, next.ID, next); err != nil {
		return nil, classify(err)
	}

	s.logger.Info("part updated", "id", next.ID, "name", next.PartName)
	return &next, nil
}

// Delete reads the record once to enumerate its images, best-effort
// deletes each one, then removes the record. Individual image-delete
// failures are logged and skipped; they never abort the record delete.
// The enumeration can be stale if the record changed between the read
// and the delete.
func (s *PartService) Delete(ctx context.Context, id string) error {
	p, err := s.parts.Get(ctx, id)
	if err != nil {
		return classify(err)
	}
	if p != nil {
		for _, url := range p.AllImageURLs() {
			if err := s.photos.Delete(ctx, url); err != nil {
				s.logger.Warn("failed to delete part image, skipping", "id", id, "url", url, "error", err)
			}
		}
	}
	if err := s.parts.Delete(ctx, id); err != nil {
		return classify(err)
	}
	s.logger.Info("part deleted", "id", id)
	return nil
}

// UserMessage maps an operation error to the dismissible banner text the
// UI shows. Validation errors read as-is; everything unknown becomes a
// generic message with detail.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "Request timed out. Please check your connection and try again."
	case errors.Is(err, ErrBusy):
		return "Another operation is still in progress."
	case errors.Is(err, draft.ErrNameRequired),
		errors.Is(err, capture.ErrAtCapacity):
		return capitalizeFirst(err.Error())
	default:
		var fieldErr *draft.FieldError
		if errors.As(err, &fieldErr) {
			return capitalizeFirst(fieldErr.Error())
		}
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func report(p Progress, msg string) {
	if p != nil {
		p(msg)
	}
}
