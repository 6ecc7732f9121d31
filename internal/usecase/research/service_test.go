package research

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"leadpulse/internal/domain/entity"
)

type stubWebsite struct {
	data *entity.WebsiteData
	err  error
}

func (s *stubWebsite) Scrape(_ context.Context, _ string) (*entity.WebsiteData, error) {
	return s.data, s.err
}

type stubLinkedIn struct {
	profile    *entity.CompanyProfile
	profileErr error
	posts      []entity.CompanyPost
	postsErr   error
	postLimit  int
}

func (s *stubLinkedIn) CompanyProfile(_ context.Context, _ string) (*entity.CompanyProfile, error) {
	return s.profile, s.profileErr
}

func (s *stubLinkedIn) CompanyPosts(_ context.Context, _ string, limit int) ([]entity.CompanyPost, error) {
	s.postLimit = limit
	return s.posts, s.postsErr
}

func fullInput() Input {
	return Input{
		CompanyName: "Acme Corp",
		WebsiteURL:  "https://acme.example",
		LinkedInURL: "https://linkedin.com/company/acme",
	}
}

func TestResearch_AllSectionsSucceed(t *testing.T) {
	website := &stubWebsite{data: &entity.WebsiteData{Title: "Acme Corp", PagesScraped: []string{"https://acme.example/"}}}
	linkedin := &stubLinkedIn{
		profile: &entity.CompanyProfile{Name: "Acme Corp", Industry: "Manufacturing", Source: "brightdata"},
		posts:   []entity.CompanyPost{{Content: "We shipped v2.", Source: "brightdata"}},
	}

	svc := NewService(website, linkedin, slog.New(slog.DiscardHandler))
	report, err := svc.Research(context.Background(), fullInput())
	if err != nil {
		t.Fatalf("Research err=%v", err)
	}

	if report.Website == nil || report.Company == nil || len(report.Posts) != 1 {
		t.Errorf("incomplete report: %+v", report)
	}
	if len(report.Notes) != 0 {
		t.Errorf("Notes = %v, want none", report.Notes)
	}
	if linkedin.postLimit != defaultPostLimit {
		t.Errorf("post limit = %d, want %d", linkedin.postLimit, defaultPostLimit)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestResearch_PartialFailureYieldsNotes(t *testing.T) {
	website := &stubWebsite{err: errors.New("site unreachable")}
	linkedin := &stubLinkedIn{
		profile:  &entity.CompanyProfile{Name: "Acme Corp"},
		postsErr: errors.New("no provider could serve company posts"),
	}

	svc := NewService(website, linkedin, slog.New(slog.DiscardHandler))
	report, err := svc.Research(context.Background(), fullInput())
	if err != nil {
		t.Fatalf("Research err=%v", err)
	}

	if report.Company == nil {
		t.Error("profile section should have survived")
	}
	if report.Website != nil {
		t.Error("failed website section should be nil")
	}
	if len(report.Notes) != 2 {
		t.Fatalf("Notes = %v, want 2", report.Notes)
	}
	if !strings.Contains(report.Notes[0], "site unreachable") {
		t.Errorf("Notes[0] = %q", report.Notes[0])
	}
}

func TestResearch_AllSectionsFail(t *testing.T) {
	svc := NewService(
		&stubWebsite{err: errors.New("down")},
		&stubLinkedIn{profileErr: errors.New("down"), postsErr: errors.New("down")},
		slog.New(slog.DiscardHandler),
	)

	if _, err := svc.Research(context.Background(), fullInput()); err == nil {
		t.Error("want error when every section fails")
	}
}

func TestResearch_WebsiteOnly(t *testing.T) {
	svc := NewService(
		&stubWebsite{data: &entity.WebsiteData{Title: "Acme Corp"}},
		nil,
		slog.New(slog.DiscardHandler),
	)

	report, err := svc.Research(context.Background(), Input{
		CompanyName: "Acme Corp",
		WebsiteURL:  "https://acme.example",
	})
	if err != nil {
		t.Fatalf("Research err=%v", err)
	}
	if report.Website == nil {
		t.Error("want website section")
	}
	// Skipped profile and posts each leave a note.
	if len(report.Notes) != 2 {
		t.Errorf("Notes = %v, want 2", report.Notes)
	}
}

func TestResearch_RejectsMissingInput(t *testing.T) {
	svc := NewService(nil, nil, slog.New(slog.DiscardHandler))

	if _, err := svc.Research(context.Background(), Input{WebsiteURL: "https://acme.example"}); err == nil {
		t.Error("want error for missing company name")
	}
	if _, err := svc.Research(context.Background(), Input{CompanyName: "Acme"}); err == nil {
		t.Error("want error when no URL is given")
	}
}

func TestResearch_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(
		&stubWebsite{data: &entity.WebsiteData{Title: "Acme"}},
		nil,
		slog.New(slog.DiscardHandler),
	)
	if _, err := svc.Research(ctx, fullInput()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestResearch_CustomPostLimit(t *testing.T) {
	linkedin := &stubLinkedIn{profile: &entity.CompanyProfile{Name: "Acme"}}
	svc := NewService(nil, linkedin, slog.New(slog.DiscardHandler))

	in := fullInput()
	in.PostLimit = 12
	if _, err := svc.Research(context.Background(), in); err != nil {
		t.Fatalf("Research err=%v", err)
	}
	if linkedin.postLimit != 12 {
		t.Errorf("post limit = %d, want 12", linkedin.postLimit)
	}
}

func TestResearch_GeneratedAtUsesClock(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(&stubWebsite{data: &entity.WebsiteData{}}, nil, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return fixed }

	report, err := svc.Research(context.Background(), Input{
		CompanyName: "Acme",
		WebsiteURL:  "https://acme.example",
	})
	if err != nil {
		t.Fatalf("Research err=%v", err)
	}
	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("GeneratedAt = %v", report.GeneratedAt)
	}
}
