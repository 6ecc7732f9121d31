package webscrape

import (
	"net/url"
	"sort"
	"strings"
)

// pathKeywords weight URLs whose path suggests high-signal pages for
// prospect research.
var pathKeywords = map[string]int{
	"about":     10,
	"company":   9,
	"product":   8,
	"products":  8,
	"service":   8,
	"services":  8,
	"solution":  7,
	"solutions": 7,
	"team":      6,
	"pricing":   6,
	"customers": 5,
	"case":      4,
	"blog":      2,
	"news":      2,
}

// skipKeywords mark pages that are never worth scraping.
var skipKeywords = []string{
	"privacy", "terms", "cookie", "legal", "login", "signin", "signup",
	"careers", "jobs",
}

// RankPages orders discovered URLs by research value and returns the top
// N. The landing page always ranks first; deeper paths score lower.
func RankPages(urls []string, topN int) []string {
	type scored struct {
		url   string
		score int
		index int
	}

	candidates := make([]scored, 0, len(urls))
	for i, raw := range urls {
		score, skip := scoreURL(raw)
		if skip {
			continue
		}
		candidates = append(candidates, scored{url: raw, score: score, index: i})
	}

	// Stable by discovery order on ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].index < candidates[j].index
	})

	if topN > len(candidates) {
		topN = len(candidates)
	}
	ranked := make([]string, 0, topN)
	for _, c := range candidates[:topN] {
		ranked = append(ranked, c.url)
	}
	return ranked
}

func scoreURL(raw string) (score int, skip bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return 0, true
	}

	path := strings.ToLower(strings.Trim(parsed.Path, "/"))
	for _, keyword := range skipKeywords {
		if strings.Contains(path, keyword) {
			return 0, true
		}
	}

	// The landing page always wins.
	if path == "" {
		return 100, false
	}

	segments := strings.Split(path, "/")
	for _, segment := range segments {
		if weight, ok := pathKeywords[segment]; ok && weight > score {
			score = weight
		}
	}

	// Depth penalty: one point per extra path segment.
	score -= len(segments) - 1
	return score, false
}
