package webscrape

import "strings"

const (
	minSentenceLength = 40
	maxSentenceLength = 300
	maxKeyPoints      = 10
)

// keyPointCues are phrases that make a sentence likely to describe what
// the company does.
var keyPointCues = []string{
	"we help", "we provide", "we offer", "we build", "our mission",
	"our platform", "our product", "specialize", "founded", "customers",
	"trusted by", "leading",
}

// ExtractKeyPoints pulls the most informative sentences out of scraped
// content. Cue-bearing sentences are preferred; remaining slots fill with
// the earliest well-sized sentences.
func ExtractKeyPoints(content string, limit int) []string {
	if limit <= 0 || limit > maxKeyPoints {
		limit = maxKeyPoints
	}

	sentences := splitSentences(content)

	var cued, plain []string
	for _, sentence := range sentences {
		if len(sentence) < minSentenceLength || len(sentence) > maxSentenceLength {
			continue
		}
		if hasCue(sentence) {
			cued = append(cued, sentence)
		} else {
			plain = append(plain, sentence)
		}
	}

	points := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, sentence := range append(cued, plain...) {
		if len(points) >= limit {
			break
		}
		if seen[sentence] {
			continue
		}
		seen[sentence] = true
		points = append(points, sentence)
	}
	return points
}

func hasCue(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, cue := range keyPointCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// splitSentences breaks text on sentence-ending punctuation. Markdown
// artifacts (headings, links) are stripped line-wise first.
func splitSentences(content string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "|") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteString(" ")
	}

	var sentences []string
	var current strings.Builder
	for _, r := range cleaned.String() {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if sentence := strings.TrimSpace(current.String()); sentence != "" {
				sentences = append(sentences, sentence)
			}
			current.Reset()
		}
	}
	if sentence := strings.TrimSpace(current.String()); sentence != "" {
		sentences = append(sentences, sentence)
	}
	return sentences
}
