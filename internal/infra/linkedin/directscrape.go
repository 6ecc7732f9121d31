package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadpulse/internal/domain/entity"
)

// DirectScraper fetches the public company page and pulls what it can from
// the meta tags. It is the last resort in the profile chain: LinkedIn
// serves logged-out crawlers a thin page, so only name and description are
// reliably present.
type DirectScraper struct {
	httpClient *http.Client
	userAgent  string
}

// NewDirectScraper creates the direct-scrape fallback provider.
func NewDirectScraper() *DirectScraper {
	return &DirectScraper{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		userAgent:  "Mozilla/5.0 (compatible; leadpulse/1.0)",
	}
}

// Name implements CompanyProfileProvider.
func (s *DirectScraper) Name() string { return "direct" }

// CompanyProfile implements CompanyProfileProvider.
func (s *DirectScraper) CompanyProfile(ctx context.Context, companyURL string) (*entity.CompanyProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, companyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch company page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch company page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse company page: %w", err)
	}

	profile := &entity.CompanyProfile{
		Name:        metaContent(doc, `meta[property="og:title"]`),
		Description: metaContent(doc, `meta[property="og:description"]`),
	}
	if profile.Name == "" {
		profile.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	// LinkedIn suffixes page titles with "| LinkedIn".
	profile.Name = strings.TrimSpace(strings.TrimSuffix(profile.Name, "| LinkedIn"))

	if profile.Name == "" && profile.Description == "" {
		return nil, fmt.Errorf("no usable metadata on %s", companyURL)
	}
	return profile, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
