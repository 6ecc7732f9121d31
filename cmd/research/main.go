// Command research assembles a prospect report from a company's website
// and LinkedIn presence.
//
// Usage: research --company "Acme Corp" [--website URL] [--linkedin URL] [--out DIR]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadpulse/internal/infra/linkedin"
	"leadpulse/internal/infra/webscrape"
	"leadpulse/internal/observability/logging"
	"leadpulse/internal/pkg/config"
	"leadpulse/internal/usecase/research"
)

func main() {
	var (
		company   string
		website   string
		linkedIn  string
		outputDir string
		postLimit int
		timeout   time.Duration
	)

	flag.StringVar(&company, "company", "", "Company name (required)")
	flag.StringVar(&website, "website", "", "Company website URL")
	flag.StringVar(&linkedIn, "linkedin", "", "LinkedIn company page URL")
	flag.StringVar(&outputDir, "out", "reports", "Output directory for report files")
	flag.IntVar(&postLimit, "posts", 5, "Maximum recent LinkedIn posts to include")
	flag.DurationVar(&timeout, "timeout", 3*time.Minute, "Overall research timeout")
	flag.Parse()

	if company == "" || (website == "" && linkedIn == "") {
		fmt.Fprintln(os.Stderr, "Error: --company and at least one of --website/--linkedin are required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, `Usage: research --company "Acme Corp" [--website URL] [--linkedin URL] [--out DIR]`)
		os.Exit(1)
	}

	logger := logging.NewTextLogger()

	svc := research.NewService(buildWebsiteScraper(logger), buildLinkedInResolver(logger), logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	report, err := svc.Research(ctx, research.Input{
		CompanyName: company,
		WebsiteURL:  website,
		LinkedInURL: linkedIn,
		PostLimit:   postLimit,
	})
	if err != nil {
		logger.Error("research failed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path, err := research.WriteReport(outputDir, report)
	if err != nil {
		logger.Error("failed to write report", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report written to %s\n", path)
	for _, note := range report.Notes {
		fmt.Printf("Note: %s\n", note)
	}
}

// buildWebsiteScraper prefers the hosted scrape API when a key is
// present; the direct scraper always serves as fallback.
func buildWebsiteScraper(logger *slog.Logger) *webscrape.WebsiteScraper {
	var primary webscrape.PageScraper
	if key := os.Getenv("FIRECRAWL_API_KEY"); key != "" {
		primary = webscrape.NewFirecrawlClient(key)
	} else {
		logger.Warn("FIRECRAWL_API_KEY not set, using direct scraping only")
	}

	maxPages, result := config.LoadEnvInt("SCRAPE_MAX_PAGES", 5,
		func(v int) error { return config.ValidateIntRange(1, 20)(v) })
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", "ScrapeMaxPages"),
			slog.String("warning", warning))
	}

	return webscrape.NewWebsiteScraper(primary, webscrape.NewSimpleScraper(), maxPages, logger)
}

func buildLinkedInResolver(logger *slog.Logger) *linkedin.Resolver {
	return linkedin.BuildResolver(linkedin.LoadResolverConfig(logger), logger)
}
