// Command extract scrapes a URL and pulls structured fields out of the
// content with an LLM, guided by a JSON schema and prompt template.
//
// Usage: extract --url URL --schema FILE [--prompt FILE] [--company NAME] [--out FILE]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadpulse/internal/infra/extractor"
	"leadpulse/internal/infra/webscrape"
	"leadpulse/internal/observability/logging"
	"leadpulse/internal/pkg/config"
)

func main() {
	var (
		targetURL  string
		schemaPath string
		promptPath string
		company    string
		outputPath string
		timeout    time.Duration
	)

	flag.StringVar(&targetURL, "url", "", "Page URL to scrape and extract from (required)")
	flag.StringVar(&schemaPath, "schema", "", "Path to the JSON schema file (required)")
	flag.StringVar(&promptPath, "prompt", "", "Path to a prompt template (optional)")
	flag.StringVar(&company, "company", "", "Company name recorded in the result")
	flag.StringVar(&outputPath, "out", "", "Write the result JSON to a file instead of stdout")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall extraction timeout")
	flag.Parse()

	if targetURL == "" || schemaPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --url and --schema are required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: extract --url URL --schema FILE [--prompt FILE] [--company NAME] [--out FILE]")
		os.Exit(1)
	}

	logger := logging.NewTextLogger()

	schema, err := extractor.LoadSchema(schemaPath)
	if err != nil {
		fatal(logger, "failed to load schema", err)
	}

	var promptTemplate string
	if promptPath != "" {
		promptTemplate, err = extractor.LoadPromptTemplate(promptPath)
		if err != nil {
			fatal(logger, "failed to load prompt template", err)
		}
	}

	svc, err := extractor.BuildService(logger)
	if err != nil {
		fatal(logger, "failed to build extraction service", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	data, err := scrapeContent(ctx, logger, targetURL)
	if err != nil {
		fatal(logger, "failed to scrape page", err)
	}

	result, err := svc.Extract(ctx, extractor.Request{
		CompanyName:    company,
		URL:            targetURL,
		Content:        data,
		Schema:         schema,
		PromptTemplate: promptTemplate,
	})
	if err != nil {
		fatal(logger, "extraction failed", err)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatal(logger, "failed to encode result", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
			fatal(logger, "failed to write result", err)
		}
		fmt.Printf("Result written to %s\n", outputPath)
		return
	}
	fmt.Println(string(encoded))
}

// scrapeContent aggregates the target site's top pages into one blob of
// extraction input.
func scrapeContent(ctx context.Context, logger *slog.Logger, targetURL string) (string, error) {
	var primary webscrape.PageScraper
	if key := os.Getenv("FIRECRAWL_API_KEY"); key != "" {
		primary = webscrape.NewFirecrawlClient(key)
	}

	maxPages, result := config.LoadEnvInt("SCRAPE_MAX_PAGES", 5,
		func(v int) error { return config.ValidateIntRange(1, 20)(v) })
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", "ScrapeMaxPages"),
			slog.String("warning", warning))
	}

	scraper := webscrape.NewWebsiteScraper(primary, webscrape.NewSimpleScraper(), maxPages, logger)
	data, err := scraper.Scrape(ctx, targetURL)
	if err != nil {
		return "", err
	}
	return data.Content, nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
