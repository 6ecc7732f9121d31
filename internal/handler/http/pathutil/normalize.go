// Package pathutil provides URL path helpers shared by the HTTP handlers:
// metric label normalization and path parameter extraction.
package pathutil

import (
	"regexp"
	"strings"
)

// pathPatterns maps dynamic routes to their label templates. Evaluated in
// order; pre-compiled at init.
var pathPatterns = []struct {
	pattern  *regexp.Regexp
	template string
}{
	{regexp.MustCompile(`^/analytics/by-lead/[^/]+$`), "/analytics/by-lead/:lead_id"},
}

// NormalizePath converts dynamic URL paths to their template form so metric
// label cardinality stays bounded. Static paths pass through unchanged.
//
// Examples:
//
//	NormalizePath("/analytics/by-lead/lead_abc")  // "/analytics/by-lead/:lead_id"
//	NormalizePath("/analytics/summary")           // "/analytics/summary" (unchanged)
//	NormalizePath("/health")                      // "/health" (unchanged)
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
