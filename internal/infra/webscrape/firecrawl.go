// Package webscrape collects a prospect's website content: page discovery,
// importance ranking, scraping to markdown, and key-point extraction.
//
// The primary scraper is a Firecrawl-style API; when it is unconfigured or
// failing, a direct fetch with readability extraction takes over.
package webscrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"leadpulse/internal/domain/entity"
)

const firecrawlBaseURL = "https://api.firecrawl.dev/v1"

// FirecrawlClient scrapes pages through the Firecrawl API.
type FirecrawlClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewFirecrawlClient creates a Firecrawl API client.
func NewFirecrawlClient(apiKey string) *FirecrawlClient {
	return &FirecrawlClient{
		apiKey:     apiKey,
		baseURL:    firecrawlBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// MapSite discovers the site's URLs via the map endpoint.
func (c *FirecrawlClient) MapSite(ctx context.Context, siteURL string) ([]string, error) {
	var resp struct {
		Success bool     `json:"success"`
		Links   []string `json:"links"`
	}
	body := map[string]any{"url": siteURL, "limit": 100}
	if err := c.postJSON(ctx, "/map", body, &resp); err != nil {
		return nil, fmt.Errorf("map site: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("map site %s: provider reported failure", siteURL)
	}
	return resp.Links, nil
}

// ScrapePage scrapes one page as markdown.
func (c *FirecrawlClient) ScrapePage(ctx context.Context, pageURL string) (*entity.WebsitePage, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Markdown Sanitized `json:"markdown"`
			Metadata struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"metadata"`
		} `json:"data"`
	}
	body := map[string]any{"url": pageURL, "formats": []string{"markdown"}}
	if err := c.postJSON(ctx, "/scrape", body, &resp); err != nil {
		return nil, fmt.Errorf("scrape page: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("scrape page %s: provider reported failure", pageURL)
	}

	return &entity.WebsitePage{
		URL:      pageURL,
		Title:    resp.Data.Metadata.Title,
		Markdown: string(resp.Data.Markdown),
	}, nil
}

// Sanitized is a string that drops NUL bytes and invalid UTF-8 during JSON
// decoding; some scrape targets embed them and they break downstream
// storage.
type Sanitized string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Sanitized) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cleaned := bytes.ReplaceAll([]byte(raw), []byte{0}, nil)
	*s = Sanitized(bytes.ToValidUTF8(cleaned, nil))
	return nil
}

func (c *FirecrawlClient) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
