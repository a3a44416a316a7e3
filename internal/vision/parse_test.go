package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected *DetectedPart
	}{
		{
			name:     "full candidate",
			line:     "Bolt M6 | 4 | zinc plated",
			expected: &DetectedPart{Name: "Bolt M6", Quantity: "4", Notes: "zinc plated"},
		},
		{
			name:     "name and quantity only",
			line:     "Washer | 12",
			expected: &DetectedPart{Name: "Washer", Quantity: "12", Notes: ""},
		},
		{
			name:     "no pipe is preamble",
			line:     "The photo shows a fastener.",
			expected: nil,
		},
		{
			name:     "empty",
			line:     "",
			expected: nil,
		},
		{
			name:     "pipe with blank name",
			line:     " | 4 | ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLine(tt.line))
		})
	}
}

func TestParseResponse(t *testing.T) {
	raw := `Here is what I can identify:
Bolt M6 | 4 | hex head

Hex Nut M6 | 4 |
`
	got := ParseResponse(raw)
	assert.Equal(t, []DetectedPart{
		{Name: "Bolt M6", Quantity: "4", Notes: "hex head"},
		{Name: "Hex Nut M6", Quantity: "4", Notes: ""},
	}, got)
}

func TestParseResponseNoCandidates(t *testing.T) {
	assert.Empty(t, ParseResponse("I cannot identify any part in this image."))
}
