package domain

import "strings"

// FilterByName returns the parts whose name contains query,
// case-insensitive, preserving input order. A blank query returns the
// input slice unchanged.
func FilterByName(parts []Part, query string) []Part {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return parts
	}
	filtered := make([]Part, 0, len(parts))
	for _, p := range parts {
		if strings.Contains(strings.ToLower(p.PartName), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
