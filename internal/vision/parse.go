package vision

import "strings"

// ParseLine parses one "name | quantity | notes" line. Lines without a
// pipe are indistinguishable from model preamble and yield nil.
func ParseLine(line string) *DetectedPart {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, "|") {
		return nil
	}

	fields := strings.Split(line, "|")
	part := &DetectedPart{Name: strings.TrimSpace(fields[0])}
	if part.Name == "" {
		return nil
	}
	if len(fields) > 1 {
		part.Quantity = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		part.Notes = strings.TrimSpace(fields[2])
	}
	return part
}

// ParseResponse parses the full model response, one candidate per line,
// skipping preamble and blank lines.
func ParseResponse(raw string) []DetectedPart {
	parts := make([]DetectedPart, 0)
	for _, line := range strings.Split(raw, "\n") {
		if p := ParseLine(line); p != nil {
			parts = append(parts, *p)
		}
	}
	return parts
}
