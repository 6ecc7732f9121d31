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

const brightDataBaseURL = "https://api.brightdata.com/datasets/v3"

// BrightDataClient scrapes LinkedIn through the Bright Data dataset API.
// It is the preferred provider: structured output, snake_case fields.
type BrightDataClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewBrightDataClient creates a Bright Data provider.
func NewBrightDataClient(apiKey string) *BrightDataClient {
	return &BrightDataClient{
		apiKey:     apiKey,
		baseURL:    brightDataBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Name implements the provider interfaces.
func (c *BrightDataClient) Name() string { return "brightdata" }

// brightDataCompany is the snake_case payload of the company dataset.
type brightDataCompany struct {
	Name         string   `json:"name"`
	Industries   string   `json:"industries"`
	CompanySize  string   `json:"company_size"`
	Headquarters string   `json:"headquarters"`
	Founded      string   `json:"founded"`
	Specialties  []string `json:"specialties"`
	About        string   `json:"about"`
	Website      string   `json:"website"`
	Employees    int      `json:"employees_in_linkedin"`
}

// CompanyProfile implements CompanyProfileProvider.
func (c *BrightDataClient) CompanyProfile(ctx context.Context, companyURL string) (*entity.CompanyProfile, error) {
	var payload []brightDataCompany
	if err := c.scrape(ctx, "gd_company_profile", companyURL, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty dataset for %s", companyURL)
	}

	company := payload[0]
	return &entity.CompanyProfile{
		Name:          company.Name,
		Industry:      company.Industries,
		CompanySize:   company.CompanySize,
		Headquarters:  company.Headquarters,
		Founded:       company.Founded,
		Specialties:   company.Specialties,
		Description:   company.About,
		Website:       company.Website,
		EmployeeCount: company.Employees,
	}, nil
}

type brightDataPost struct {
	URL        string         `json:"url"`
	Author     string         `json:"author"`
	PostText   string         `json:"post_text"`
	Engagement map[string]int `json:"engagement"`
	DatePosted string         `json:"date_posted"`
}

// CompanyPosts implements CompanyPostsProvider.
func (c *BrightDataClient) CompanyPosts(ctx context.Context, companyURL string, limit int) ([]entity.CompanyPost, error) {
	var payload []brightDataPost
	if err := c.scrape(ctx, "gd_company_posts", companyURL, &payload); err != nil {
		return nil, err
	}

	posts := make([]entity.CompanyPost, 0, limit)
	for _, raw := range payload {
		if len(posts) >= limit {
			break
		}
		post := entity.CompanyPost{
			PostURL:    raw.URL,
			Author:     raw.Author,
			Content:    raw.PostText,
			Engagement: raw.Engagement,
		}
		if ts, err := time.Parse("2006-01-02", raw.DatePosted); err == nil {
			post.PublishedAt = ts
		}
		posts = append(posts, post)
	}
	return posts, nil
}

type brightDataPerson struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	City     string `json:"city"`
}

// PersonProfile implements PersonProfileProvider.
func (c *BrightDataClient) PersonProfile(ctx context.Context, profileURL string) (*entity.PersonProfile, error) {
	var payload []brightDataPerson
	if err := c.scrape(ctx, "gd_person_profile", profileURL, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty dataset for %s", profileURL)
	}

	person := payload[0]
	return &entity.PersonProfile{
		Name:     person.Name,
		Headline: person.Position,
		Location: person.City,
	}, nil
}

// scrape triggers a synchronous dataset scrape and decodes the result rows.
func (c *BrightDataClient) scrape(ctx context.Context, dataset, targetURL string, out any) error {
	body, err := json.Marshal([]map[string]string{{"url": targetURL}})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/scrape?dataset_id=%s&format=json", c.baseURL, dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
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
		return fmt.Errorf("scrape %s: status %d: %s", dataset, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode dataset rows: %w", err)
	}
	return nil
}
