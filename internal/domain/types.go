package domain

import "strconv"

// MaxImages is the hard cap on photos attached to a single part.
const MaxImages = 5

// Part is an inventory record as stored under parts/{id} in the remote
// database. JSON tags match the wire field names exactly; there is no
// schema versioning, so new fields must be added backward-compatibly.
type Part struct {
	ID       string `json:"id"`
	PartName string `json:"partName"`
	Quantity int    `json:"quantity"`
	Cabinet  string `json:"cabinetName"`
	ShelfRow string `json:"shelfRow"`
	ShelfCol string `json:"shelfColumn"`
	Remarks  string `json:"remarks"`
	// ImageURL holds the first image only. Records created before
	// multi-image support have just this field; it is kept populated on
	// write so old clients keep working.
	ImageURL  string   `json:"imageUrl"`
	ImageURLs []string `json:"imageUrls,omitempty"`
	// CreatedAt is the server timestamp in milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// DisplayImages returns the image URLs to show for the part. ImageURLs
// wins when non-empty; otherwise the legacy single URL is used.
func (p Part) DisplayImages() []string {
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs
	}
	if p.ImageURL != "" {
		return []string{p.ImageURL}
	}
	return nil
}

// AllImageURLs returns every image URL referenced by the part across both
// representations, deduplicated, preserving first-seen order. Used to
// enumerate blobs for cleanup on delete.
func (p Part) AllImageURLs() []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	add(p.ImageURL)
	for _, u := range p.ImageURLs {
		add(u)
	}
	return urls
}

// ParseQuantity converts free-text quantity input to an int, defaulting
// to 0 when unparsable.
func ParseQuantity(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
