package notifier

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LoadDestinations resolves the configured notification destinations once
// at startup.
//
// Priority:
//  1. configFile — a JSON file in one of two accepted shapes, both
//     normalized into the same destination list:
//     {"webhooks": [{"name": "...", "url": "..."}, ...]}
//     {"sales": "https://...", "founders": "https://..."}
//  2. singleURL — one webhook named "default".
//
// A configured file that cannot be read is an error rather than a
// fallthrough: a typo'd path must not silently change the destination set.
// An empty result is an error: the notifier is useless without at least one
// destination.
func LoadDestinations(configFile, singleURL string) ([]Destination, error) {
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read destination config %s: %w", configFile, err)
		}
		destinations, err := parseDestinations(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", configFile, err)
		}
		return destinations, nil
	}

	if singleURL != "" {
		return []Destination{{Name: "default", URL: singleURL}}, nil
	}

	return nil, fmt.Errorf("no notification destinations configured: set DISCORD_WEBHOOK_URL or provide a config file")
}

// parseDestinations normalizes the two accepted JSON shapes into one list.
// The name→URL mapping shape is sorted by name for a deterministic order.
func parseDestinations(data []byte) ([]Destination, error) {
	var listForm struct {
		Webhooks []Destination `json:"webhooks"`
	}
	if err := json.Unmarshal(data, &listForm); err == nil && len(listForm.Webhooks) > 0 {
		for i, d := range listForm.Webhooks {
			if d.URL == "" {
				return nil, fmt.Errorf("webhook %d: missing url", i)
			}
		}
		return listForm.Webhooks, nil
	}

	var mapForm map[string]string
	if err := json.Unmarshal(data, &mapForm); err != nil {
		return nil, fmt.Errorf("unrecognized destination config shape: %w", err)
	}
	if len(mapForm) == 0 {
		return nil, fmt.Errorf("destination config is empty")
	}

	names := make([]string, 0, len(mapForm))
	for name := range mapForm {
		names = append(names, name)
	}
	sort.Strings(names)

	destinations := make([]Destination, 0, len(names))
	for _, name := range names {
		if mapForm[name] == "" {
			return nil, fmt.Errorf("webhook %q: missing url", name)
		}
		destinations = append(destinations, Destination{Name: name, URL: mapForm[name]})
	}
	return destinations, nil
}
