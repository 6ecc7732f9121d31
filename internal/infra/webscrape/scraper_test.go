package webscrape

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"leadpulse/internal/domain/entity"
)

type stubScraper struct {
	links    []string
	pages    map[string]*entity.WebsitePage
	mapErr   error
	pageErr  error
	scrapes  []string
	mapCalls int
}

func (s *stubScraper) MapSite(_ context.Context, _ string) ([]string, error) {
	s.mapCalls++
	return s.links, s.mapErr
}

func (s *stubScraper) ScrapePage(_ context.Context, pageURL string) (*entity.WebsitePage, error) {
	s.scrapes = append(s.scrapes, pageURL)
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	if page, ok := s.pages[pageURL]; ok {
		return page, nil
	}
	return nil, errors.New("page not found")
}

func TestScrape_AggregatesTopPages(t *testing.T) {
	primary := &stubScraper{
		links: []string{
			"https://acme.example/",
			"https://acme.example/about",
			"https://acme.example/privacy",
		},
		pages: map[string]*entity.WebsitePage{
			"https://acme.example/": {
				URL:      "https://acme.example/",
				Title:    "Acme Corp",
				Markdown: "We help manufacturers automate their quoting workflows every day.",
			},
			"https://acme.example/about": {
				URL:      "https://acme.example/about",
				Title:    "About",
				Markdown: "Founded in 2015, Acme now serves four hundred customers worldwide.",
			},
		},
	}

	scraper := NewWebsiteScraper(primary, &stubScraper{}, 5, slog.New(slog.DiscardHandler))
	data, err := scraper.Scrape(context.Background(), "https://acme.example/")
	if err != nil {
		t.Fatalf("Scrape err=%v", err)
	}

	if data.Title != "Acme Corp" {
		t.Errorf("Title = %q", data.Title)
	}
	if len(data.PagesScraped) != 2 {
		t.Errorf("PagesScraped = %v", data.PagesScraped)
	}
	if len(data.KeyPoints) == 0 {
		t.Error("want key points extracted from aggregated content")
	}
	for _, scraped := range primary.scrapes {
		if scraped == "https://acme.example/privacy" {
			t.Error("privacy page must not be scraped")
		}
	}
}

func TestScrape_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := &stubScraper{mapErr: errors.New("api down"), pageErr: errors.New("api down")}
	fallback := &stubScraper{
		links: []string{"https://acme.example/"},
		pages: map[string]*entity.WebsitePage{
			"https://acme.example/": {
				URL:      "https://acme.example/",
				Title:    "Acme Corp",
				Markdown: "We provide workflow automation for manufacturers in three countries.",
			},
		},
	}

	scraper := NewWebsiteScraper(primary, fallback, 5, slog.New(slog.DiscardHandler))
	data, err := scraper.Scrape(context.Background(), "https://acme.example/")
	if err != nil {
		t.Fatalf("Scrape err=%v", err)
	}
	if len(data.PagesScraped) != 1 {
		t.Errorf("PagesScraped = %v", data.PagesScraped)
	}
	if fallback.mapCalls != 1 {
		t.Errorf("fallback map calls = %d, want 1", fallback.mapCalls)
	}
}

func TestScrape_NoPrimaryConfigured(t *testing.T) {
	fallback := &stubScraper{
		links: []string{"https://acme.example/"},
		pages: map[string]*entity.WebsitePage{
			"https://acme.example/": {
				URL:      "https://acme.example/",
				Markdown: "Our mission is to automate quoting for manufacturers around the world.",
			},
		},
	}

	scraper := NewWebsiteScraper(nil, fallback, 5, slog.New(slog.DiscardHandler))
	if _, err := scraper.Scrape(context.Background(), "https://acme.example/"); err != nil {
		t.Fatalf("Scrape err=%v", err)
	}
}

func TestScrape_AllPagesFail(t *testing.T) {
	failing := &stubScraper{
		links:   []string{"https://acme.example/"},
		pageErr: errors.New("blocked"),
	}

	scraper := NewWebsiteScraper(nil, failing, 5, slog.New(slog.DiscardHandler))
	if _, err := scraper.Scrape(context.Background(), "https://acme.example/"); err == nil {
		t.Error("want error when nothing could be scraped")
	}
}
