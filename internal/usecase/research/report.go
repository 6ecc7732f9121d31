package research

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"leadpulse/internal/domain/entity"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// reportSlug turns a company name into a filesystem-safe file stem.
func reportSlug(companyName string) string {
	slug := unsafeFilenameChars.ReplaceAllString(strings.ToLower(companyName), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "prospect"
	}
	return slug
}

// WriteReport writes the full report as JSON and a one-row CSV summary
// into dir, creating it if needed. It returns the JSON path.
func WriteReport(dir string, report *entity.ProspectReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	stem := fmt.Sprintf("%s_%s", reportSlug(report.CompanyName),
		report.GeneratedAt.Format("2006-01-02"))

	jsonPath := filepath.Join(dir, stem+".json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	if err := writeSummaryCSV(filepath.Join(dir, stem+"_summary.csv"), report); err != nil {
		return "", err
	}
	return jsonPath, nil
}

func writeSummaryCSV(path string, report *entity.ProspectReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary csv: %w", err)
	}
	defer f.Close()

	var (
		industry     string
		companySize  string
		headquarters string
		pagesScraped int
		keyPoints    string
	)
	if report.Company != nil {
		industry = report.Company.Industry
		companySize = report.Company.CompanySize
		headquarters = report.Company.Headquarters
	}
	if report.Website != nil {
		pagesScraped = len(report.Website.PagesScraped)
		keyPoints = strings.Join(report.Website.KeyPoints, " | ")
	}

	w := csv.NewWriter(f)
	rows := [][]string{
		{"company_name", "website_url", "linkedin_url", "industry", "company_size",
			"headquarters", "pages_scraped", "recent_posts", "key_points", "generated_at"},
		{report.CompanyName, report.WebsiteURL, report.LinkedInURL, industry,
			companySize, headquarters, strconv.Itoa(pagesScraped),
			strconv.Itoa(len(report.Posts)), keyPoints,
			report.GeneratedAt.Format(time.RFC3339)},
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}
	return nil
}
