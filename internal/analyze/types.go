// Package analyze asks a language model for directory-listing metadata and
// normalizes its reply into a fixed-shape result.
package analyze

import "time"

// AnalysisResult is the directory-listing metadata produced for one website.
// Categories and Features always hold exactly three entries.
type AnalysisResult struct {
	Description             string    `json:"description"`
	Categories              []string  `json:"categories"`
	Features                []string  `json:"features"`
	AnalysisDate            time.Time `json:"analysisDate"`
	SuggestedDirectoryCount int       `json:"suggestedDirectoryCount,omitempty"`
}

// listSize is the exact number of categories and features kept after
// normalization.
const listSize = 3

// Named defaults substituted when the model reply is missing or malformed.
const defaultDescription = "A website offering products or services to its visitors."

var (
	defaultCategories = []string{"Business", "Technology", "Services"}
	defaultFeatures   = []string{"Online presence", "Product information", "Contact options"}
)

// fallbackResult is the deterministic result used when the upstream call or
// its parsing fails. Never nil fields.
func fallbackResult(at time.Time) AnalysisResult {
	return AnalysisResult{
		Description:  defaultDescription,
		Categories:   append([]string(nil), defaultCategories...),
		Features:     append([]string(nil), defaultFeatures...),
		AnalysisDate: at,
	}
}
