package webscrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"leadpulse/internal/domain/entity"
)

// SimpleScraper fetches pages directly and extracts the readable content.
// It is the fallback when no scrape API is configured.
type SimpleScraper struct {
	httpClient *http.Client
	userAgent  string
}

// NewSimpleScraper creates the direct-fetch fallback scraper.
func NewSimpleScraper() *SimpleScraper {
	return &SimpleScraper{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "Mozilla/5.0 (compatible; leadpulse/1.0)",
	}
}

// ScrapePage fetches one page and extracts its readable text plus title
// and meta description.
func (s *SimpleScraper) ScrapePage(ctx context.Context, pageURL string) (*entity.WebsitePage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}

	return &entity.WebsitePage{
		URL:      pageURL,
		Title:    article.Title,
		Markdown: strings.TrimSpace(article.TextContent),
	}, nil
}

// MapSite discovers same-host links from the landing page. A shallow
// substitute for a crawl API's site map.
func (s *SimpleScraper) MapSite(ctx context.Context, siteURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch landing page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch landing page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse landing page: %w", err)
	}

	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("parse site url: %w", err)
	}

	seen := map[string]bool{siteURL: true}
	links := []string{siteURL}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved, err := base.Parse(href)
		if err != nil || resolved.Host != base.Host {
			return
		}
		resolved.Fragment = ""
		link := resolved.String()
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})
	return links, nil
}
