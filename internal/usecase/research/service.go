// Package research assembles prospect reports from website and LinkedIn
// lookups running concurrently.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"leadpulse/internal/domain/entity"
)

// defaultPostLimit caps how many recent company posts a report includes.
const defaultPostLimit = 5

// WebsiteSource scrapes a prospect's website into aggregated content.
type WebsiteSource interface {
	Scrape(ctx context.Context, siteURL string) (*entity.WebsiteData, error)
}

// LinkedInSource resolves LinkedIn company data.
type LinkedInSource interface {
	CompanyProfile(ctx context.Context, companyURL string) (*entity.CompanyProfile, error)
	CompanyPosts(ctx context.Context, companyURL string, limit int) ([]entity.CompanyPost, error)
}

// Input identifies one prospect to research. WebsiteURL and LinkedInURL
// are each optional; sections without a URL are skipped.
type Input struct {
	CompanyName string
	WebsiteURL  string
	LinkedInURL string
	PostLimit   int
}

// Service runs the research lookups and assembles the report.
type Service struct {
	website  WebsiteSource
	linkedin LinkedInSource
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds a research service. Either source may be nil when the
// corresponding credentials are absent; its sections are then skipped
// with a note.
func NewService(website WebsiteSource, linkedin LinkedInSource, logger *slog.Logger) *Service {
	return &Service{website: website, linkedin: linkedin, logger: logger, now: time.Now}
}

// Research looks up the prospect's website, LinkedIn profile, and recent
// posts concurrently. A failed lookup never fails the whole run; the
// report carries a note per missing section instead.
func (s *Service) Research(ctx context.Context, in Input) (*entity.ProspectReport, error) {
	if in.CompanyName == "" {
		return nil, fmt.Errorf("company name is required")
	}
	if in.WebsiteURL == "" && in.LinkedInURL == "" {
		return nil, fmt.Errorf("at least one of website or linkedin URL is required")
	}

	postLimit := in.PostLimit
	if postLimit <= 0 {
		postLimit = defaultPostLimit
	}

	report := &entity.ProspectReport{
		CompanyName: in.CompanyName,
		WebsiteURL:  in.WebsiteURL,
		LinkedInURL: in.LinkedInURL,
	}

	var (
		website *entity.WebsiteData
		company *entity.CompanyProfile
		posts   []entity.CompanyPost
		notes   = make([]string, 3)
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if in.WebsiteURL == "" || s.website == nil {
			notes[0] = "website scrape skipped: no URL or scraper configured"
			return nil
		}
		data, err := s.website.Scrape(gctx, in.WebsiteURL)
		if err != nil {
			s.logger.Warn("website scrape failed",
				slog.String("url", in.WebsiteURL),
				slog.String("error", err.Error()))
			notes[0] = fmt.Sprintf("website scrape failed: %v", err)
			return nil
		}
		website = data
		return nil
	})

	g.Go(func() error {
		if in.LinkedInURL == "" || s.linkedin == nil {
			notes[1] = "company profile skipped: no URL or provider configured"
			return nil
		}
		profile, err := s.linkedin.CompanyProfile(gctx, in.LinkedInURL)
		if err != nil {
			s.logger.Warn("company profile lookup failed",
				slog.String("url", in.LinkedInURL),
				slog.String("error", err.Error()))
			notes[1] = fmt.Sprintf("company profile lookup failed: %v", err)
			return nil
		}
		company = profile
		return nil
	})

	g.Go(func() error {
		if in.LinkedInURL == "" || s.linkedin == nil {
			notes[2] = "recent posts skipped: no URL or provider configured"
			return nil
		}
		fetched, err := s.linkedin.CompanyPosts(gctx, in.LinkedInURL, postLimit)
		if err != nil {
			s.logger.Warn("recent posts lookup failed",
				slog.String("url", in.LinkedInURL),
				slog.String("error", err.Error()))
			notes[2] = fmt.Sprintf("recent posts lookup failed: %v", err)
			return nil
		}
		posts = fetched
		return nil
	})

	// Lookups swallow their own errors; only context cancellation can
	// surface here.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Website = website
	report.Company = company
	report.Posts = posts
	report.GeneratedAt = s.now().UTC()
	for _, note := range notes {
		if note != "" {
			report.Notes = append(report.Notes, note)
		}
	}

	if website == nil && company == nil && len(posts) == 0 {
		return nil, fmt.Errorf("no research section succeeded for %s", in.CompanyName)
	}

	s.logger.Info("research complete",
		slog.String("company", in.CompanyName),
		slog.Bool("website", website != nil),
		slog.Bool("profile", company != nil),
		slog.Int("posts", len(posts)),
		slog.Int("notes", len(report.Notes)))

	return report, nil
}
