// Package draft models the transient form state of an add or edit
// operation as an explicit value, replaced wholesale on each change
// rather than mutated through ambient globals.
package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

var ErrNameRequired = errors.New("part name is required")

// FieldError reports a blank required field during edit validation.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Draft holds the raw text the user entered. Quantity stays a string
// until reconciliation so unparsable input degrades to 0 instead of
// failing the form.
type Draft struct {
	PartName string
	Quantity string
	Cabinet  string
	ShelfRow string
	ShelfCol string
	Remarks  string
}

// FromPart seeds a draft from an existing record for editing. Image
// fields are deliberately not carried into the draft: edit does not
// support changing images.
func FromPart(p domain.Part) Draft {
	return Draft{
		PartName: p.PartName,
		Quantity: fmt.Sprintf("%d", p.Quantity),
		Cabinet:  p.Cabinet,
		ShelfRow: p.ShelfRow,
		ShelfCol: p.ShelfCol,
		Remarks:  p.Remarks,
	}
}

// ValidateForAdd enforces the creation rule: only the part name must be
// non-blank.
func (d Draft) ValidateForAdd() error {
	if strings.TrimSpace(d.PartName) == "" {
		return ErrNameRequired
	}
	return nil
}

// ValidateForEdit requires every field except remarks to be non-blank.
func (d Draft) ValidateForEdit() error {
	required := []struct {
		name  string
		value string
	}{
		{"part name", d.PartName},
		{"quantity", d.Quantity},
		{"cabinet", d.Cabinet},
		{"shelf row", d.ShelfRow},
		{"shelf column", d.ShelfCol},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &FieldError{Field: f.name}
		}
	}
	return nil
}

// ToPart builds a fresh Part from the draft. ID, images, and the
// creation timestamp are left zero; they are assigned by the submission
// pipeline.
func (d Draft) ToPart() domain.Part {
	return domain.Part{
		PartName: strings.TrimSpace(d.PartName),
		Quantity: domain.ParseQuantity(strings.TrimSpace(d.Quantity)),
		Cabinet:  strings.TrimSpace(d.Cabinet),
		ShelfRow: strings.TrimSpace(d.ShelfRow),
		ShelfCol: strings.TrimSpace(d.ShelfCol),
		Remarks:  strings.TrimSpace(d.Remarks),
	}
}

// ApplyTo overwrites only the editable scalar fields of original,
// carrying id, both image representations, and createdAt through
// verbatim.
func (d Draft) ApplyTo(original domain.Part) domain.Part {
	next := original
	next.PartName = strings.TrimSpace(d.PartName)
	next.Quantity = domain.ParseQuantity(strings.TrimSpace(d.Quantity))
	next.Cabinet = strings.TrimSpace(d.Cabinet)
	next.ShelfRow = strings.TrimSpace(d.ShelfRow)
	next.ShelfCol = strings.TrimSpace(d.ShelfCol)
	next.Remarks = strings.TrimSpace(d.Remarks)
	return next
}

// AppendRemark adds a dictated fragment to the remarks field, separated
// by a space when remarks already has content.
func (d Draft) AppendRemark(text string) Draft {
	text = strings.TrimSpace(text)
	if text == "" {
		return d
	}
	if d.Remarks == "" {
		d.Remarks = text
	} else {
		d.Remarks = d.Remarks + " " + text
	}
	return d
}
