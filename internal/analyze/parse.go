package analyze

import (
	"encoding/json"
	"fmt"
	"strings"
)

// modelReply mirrors the JSON shape requested from the model.
type modelReply struct {
	Description             string   `json:"description"`
	Categories              []string `json:"categories"`
	Features                []string `json:"features"`
	SuggestedDirectoryCount int      `json:"suggestedDirectoryCount"`
}

// parseReply extracts the JSON object from a model reply, tolerating code
// fences and surrounding prose.
func parseReply(raw string) (modelReply, error) {
	var reply modelReply

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Models sometimes wrap the object in commentary; cut to the outermost braces.
	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	if cleaned == "" {
		return reply, fmt.Errorf("empty reply")
	}
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return reply, fmt.Errorf("decode reply: %w", err)
	}
	return reply, nil
}

// normalizeList returns exactly listSize non-empty entries, padding from the
// defaults and truncating excess.
func normalizeList(values, defaults []string) []string {
	out := make([]string, 0, listSize)
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
		if len(out) == listSize {
			return out
		}
	}
	for _, d := range defaults {
		if len(out) == listSize {
			break
		}
		if !contains(out, d) {
			out = append(out, d)
		}
	}
	// Defaults are distinct, so this only triggers when a caller shrinks them.
	for len(out) < listSize {
		out = append(out, defaults[0])
	}
	return out
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
