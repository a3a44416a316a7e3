// Package vision suggests part details from a captured photo, to
// prefill the add form before the user confirms.
package vision

import (
	"context"
	"io"
)

// SuggestPrompt is the shared prompt used by all vision backends.
const SuggestPrompt = `Identify the physical part (hardware, electronic, or mechanical
component) in this photo. Respond in plain text, one candidate per line,
format: name | visible quantity | notes. Give the most likely candidate
first. Use short catalog-style names, e.g. "Bolt M6" or "Resistor 10k".`

type Analyzer interface {
	Analyze(ctx context.Context, r io.Reader, mimeType string) (*Result, error)
}

type Result struct {
	Candidates  []DetectedPart
	RawResponse string
}

// DetectedPart is one suggestion parsed from the model output. Quantity
// stays free text; the draft layer parses it.
type DetectedPart struct {
	Name     string
	Quantity string
	Notes    string
}
