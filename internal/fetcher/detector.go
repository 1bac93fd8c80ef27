package fetcher

import "strings"

// renderMarkers are fingerprints of client-rendered application shells.
var renderMarkers = []string{
	"__next",
	`id="root"`,
	`id="app"`,
	"data-reactroot",
	"ng-version",
}

// Heuristic decides when a statically fetched page needs a headless render.
type Heuristic struct {
	BodyThreshold int
}

// NewHeuristic creates a detector; threshold is the body size in bytes below
// which a script-heavy page is promoted.
func NewHeuristic(threshold int) *Heuristic {
	if threshold <= 0 {
		threshold = 2048
	}
	return &Heuristic{BodyThreshold: threshold}
}

// ShouldRender reports whether the static markup looks like an empty
// JavaScript shell that requires browser rendering.
func (h *Heuristic) ShouldRender(html string) bool {
	if strings.TrimSpace(html) == "" {
		return true
	}
	lower := strings.ToLower(html)
	for _, marker := range renderMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	if len(html) < h.BodyThreshold && strings.Count(lower, "<script") >= 2 {
		return true
	}
	return false
}
