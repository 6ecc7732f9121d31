package webscrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadpulse/internal/domain/entity"
)

// defaultMaxPages bounds how many pages one research run scrapes.
const defaultMaxPages = 5

// PageScraper is the per-page scraping capability shared by the API client
// and the direct fallback.
type PageScraper interface {
	MapSite(ctx context.Context, siteURL string) ([]string, error)
	ScrapePage(ctx context.Context, pageURL string) (*entity.WebsitePage, error)
}

// WebsiteScraper orchestrates a full website scrape: discover, rank,
// scrape the top pages, and distill key points.
type WebsiteScraper struct {
	primary  PageScraper
	fallback PageScraper
	maxPages int
	logger   *slog.Logger
	now      func() time.Time
}

// NewWebsiteScraper creates the orchestrator. primary may be nil when no
// scrape API is configured; fallback must not be.
func NewWebsiteScraper(primary, fallback PageScraper, maxPages int, logger *slog.Logger) *WebsiteScraper {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &WebsiteScraper{
		primary:  primary,
		fallback: fallback,
		maxPages: maxPages,
		logger:   logger,
		now:      time.Now,
	}
}

// Scrape collects the site's most relevant pages into aggregated website
// data. Individual page failures are logged and skipped; the scrape fails
// only when not a single page could be fetched.
func (s *WebsiteScraper) Scrape(ctx context.Context, siteURL string) (*entity.WebsiteData, error) {
	scraper := s.primary
	urls, err := s.discover(ctx, siteURL)
	if err != nil || scraper == nil {
		scraper = s.fallback
	}
	if len(urls) == 0 {
		urls = []string{siteURL}
	}

	ranked := RankPages(urls, s.maxPages)

	data := &entity.WebsiteData{
		URL:       siteURL,
		ScrapedAt: s.now(),
	}
	var content strings.Builder
	for _, pageURL := range ranked {
		page, err := s.scrapeWithFallback(ctx, scraper, pageURL)
		if err != nil {
			s.logger.Warn("page scrape failed, skipping",
				slog.String("url", pageURL),
				slog.Any("error", err))
			continue
		}

		if data.Title == "" {
			data.Title = page.Title
		}
		content.WriteString(page.Markdown)
		content.WriteString("\n\n")
		data.PagesScraped = append(data.PagesScraped, page.URL)
	}

	if len(data.PagesScraped) == 0 {
		return nil, fmt.Errorf("no pages could be scraped from %s", siteURL)
	}

	data.Content = strings.TrimSpace(content.String())
	data.KeyPoints = ExtractKeyPoints(data.Content, maxKeyPoints)
	if len(data.KeyPoints) > 0 {
		data.Description = data.KeyPoints[0]
	}
	return data, nil
}

func (s *WebsiteScraper) discover(ctx context.Context, siteURL string) ([]string, error) {
	if s.primary != nil {
		urls, err := s.primary.MapSite(ctx, siteURL)
		if err == nil {
			return urls, nil
		}
		s.logger.Warn("site map via primary scraper failed, using fallback",
			slog.String("url", siteURL),
			slog.Any("error", err))
	}
	return s.fallback.MapSite(ctx, siteURL)
}

func (s *WebsiteScraper) scrapeWithFallback(ctx context.Context, scraper PageScraper, pageURL string) (*entity.WebsitePage, error) {
	page, err := scraper.ScrapePage(ctx, pageURL)
	if err == nil || scraper == s.fallback {
		return page, err
	}
	s.logger.Warn("primary scrape failed, trying direct fetch",
		slog.String("url", pageURL),
		slog.Any("error", err))
	return s.fallback.ScrapePage(ctx, pageURL)
}
