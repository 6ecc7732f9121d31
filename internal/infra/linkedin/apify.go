package linkedin

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

const apifyBaseURL = "https://api.apify.com/v2"

// Apify actor IDs for the LinkedIn scrapers.
const (
	apifyCompanyActor = "apify~linkedin-company-scraper"
	apifyPostsActor   = "apify~linkedin-posts-scraper"
)

// ApifyClient scrapes LinkedIn through Apify actors. Actor runs are
// asynchronous: start the run, poll its status, then fetch the dataset.
// Payloads use camelCase fields.
type ApifyClient struct {
	token      string
	baseURL    string
	httpClient *http.Client

	pollInterval time.Duration
	maxPolls     int
}

// NewApifyClient creates an Apify provider.
func NewApifyClient(token string) *ApifyClient {
	return &ApifyClient{
		token:        token,
		baseURL:      apifyBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: 3 * time.Second,
		maxPolls:     20,
	}
}

// Name implements the provider interfaces.
func (c *ApifyClient) Name() string { return "apify" }

type apifyCompany struct {
	CompanyName   string   `json:"companyName"`
	Industry      string   `json:"industry"`
	CompanySize   string   `json:"companySize"`
	Headquarters  string   `json:"headquarters"`
	FoundedYear   string   `json:"foundedYear"`
	Specialties   []string `json:"specialties"`
	Description   string   `json:"description"`
	WebsiteURL    string   `json:"websiteUrl"`
	EmployeeCount int      `json:"employeeCount"`
}

// CompanyProfile implements CompanyProfileProvider.
func (c *ApifyClient) CompanyProfile(ctx context.Context, companyURL string) (*entity.CompanyProfile, error) {
	var items []apifyCompany
	if err := c.runActor(ctx, apifyCompanyActor, companyURL, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty dataset for %s", companyURL)
	}

	company := items[0]
	return &entity.CompanyProfile{
		Name:          company.CompanyName,
		Industry:      company.Industry,
		CompanySize:   company.CompanySize,
		Headquarters:  company.Headquarters,
		Founded:       company.FoundedYear,
		Specialties:   company.Specialties,
		Description:   company.Description,
		Website:       company.WebsiteURL,
		EmployeeCount: company.EmployeeCount,
	}, nil
}

type apifyPost struct {
	PostURL    string `json:"postUrl"`
	AuthorName string `json:"authorName"`
	Text       string `json:"text"`
	Likes      int    `json:"likesCount"`
	Comments   int    `json:"commentsCount"`
	PostedAt   string `json:"postedAt"`
}

// CompanyPosts implements CompanyPostsProvider.
func (c *ApifyClient) CompanyPosts(ctx context.Context, companyURL string, limit int) ([]entity.CompanyPost, error) {
	var items []apifyPost
	if err := c.runActor(ctx, apifyPostsActor, companyURL, &items); err != nil {
		return nil, err
	}

	posts := make([]entity.CompanyPost, 0, limit)
	for _, raw := range items {
		if len(posts) >= limit {
			break
		}
		post := entity.CompanyPost{
			PostURL: raw.PostURL,
			Author:  raw.AuthorName,
			Content: raw.Text,
			Engagement: map[string]int{
				"likes":    raw.Likes,
				"comments": raw.Comments,
			},
		}
		if ts, err := time.Parse(time.RFC3339, raw.PostedAt); err == nil {
			post.PublishedAt = ts
		}
		posts = append(posts, post)
	}
	return posts, nil
}

type apifyRun struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

// runActor starts an actor run, polls until it finishes, and decodes the
// dataset items. Polling is bounded; a run that is still pending after the
// last poll is treated as a failure so the chain can fall through.
func (c *ApifyClient) runActor(ctx context.Context, actor, targetURL string, out any) error {
	input, err := json.Marshal(map[string]any{"startUrls": []map[string]string{{"url": targetURL}}})
	if err != nil {
		return fmt.Errorf("marshal actor input: %w", err)
	}

	startURL := fmt.Sprintf("%s/acts/%s/runs?token=%s", c.baseURL, actor, c.token)
	var run apifyRun
	if err := c.postJSON(ctx, startURL, input, &run); err != nil {
		return fmt.Errorf("start actor run: %w", err)
	}

	for attempt := 0; attempt < c.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}

		statusURL := fmt.Sprintf("%s/actor-runs/%s?token=%s", c.baseURL, run.Data.ID, c.token)
		var status apifyRun
		if err := c.getJSON(ctx, statusURL, &status); err != nil {
			return fmt.Errorf("poll actor run: %w", err)
		}

		switch status.Data.Status {
		case "SUCCEEDED":
			itemsURL := fmt.Sprintf("%s/datasets/%s/items?token=%s", c.baseURL, status.Data.DefaultDatasetID, c.token)
			if err := c.getJSON(ctx, itemsURL, out); err != nil {
				return fmt.Errorf("fetch dataset items: %w", err)
			}
			return nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return fmt.Errorf("actor run %s ended with status %s", run.Data.ID, status.Data.Status)
		}
	}
	return fmt.Errorf("actor run %s still pending after %d polls", run.Data.ID, c.maxPolls)
}

func (c *ApifyClient) postJSON(ctx context.Context, url string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *ApifyClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *ApifyClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
