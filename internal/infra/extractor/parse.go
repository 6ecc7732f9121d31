package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseModelJSON decodes the JSON object a model returned. Models often
// wrap the object in a ```json fence or lead with prose, so the parser
// trims fences and falls back to the outermost brace pair.
func ParseModelJSON(reply string) (map[string]any, error) {
	candidate := strings.TrimSpace(reply)

	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```json")
		candidate = strings.TrimPrefix(candidate, "```")
		if end := strings.LastIndex(candidate, "```"); end >= 0 {
			candidate = candidate[:end]
		}
		candidate = strings.TrimSpace(candidate)
	}

	var extracted map[string]any
	if err := json.Unmarshal([]byte(candidate), &extracted); err == nil {
		return extracted, nil
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("model reply contains no JSON object")
	}
	if err := json.Unmarshal([]byte(candidate[start:end+1]), &extracted); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	return extracted, nil
}
