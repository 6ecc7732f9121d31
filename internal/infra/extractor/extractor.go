package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"leadpulse/internal/domain/entity"
)

// ModelClient is one LLM provider in the extraction fallback chain.
type ModelClient interface {
	// Name identifies the provider for logs and result metadata.
	Name() string

	// Model reports the configured model identifier.
	Model() string

	// Complete sends a prompt and returns the raw model reply.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Request describes one extraction job.
type Request struct {
	CompanyName    string
	URL            string
	Content        string
	Schema         *Schema
	PromptTemplate string
}

// Service runs schema-driven extraction against a chain of model
// providers, falling back to the next when one fails.
type Service struct {
	clients []ModelClient
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds an extraction service over the given provider chain.
func NewService(clients []ModelClient, logger *slog.Logger) *Service {
	return &Service{clients: clients, logger: logger, now: time.Now}
}

// BuildService assembles the provider chain from environment
// credentials: Anthropic first, OpenAI as fallback.
func BuildService(logger *slog.Logger) (*Service, error) {
	var clients []ModelClient
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		clients = append(clients, NewClaude(key, logger))
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		clients = append(clients, NewOpenAI(key, logger))
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("no model provider configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")
	}
	return NewService(clients, logger), nil
}

// Extract renders the prompt, asks each provider in turn, and parses the
// first successful reply into an ExtractionResult.
func (s *Service) Extract(ctx context.Context, req Request) (*entity.ExtractionResult, error) {
	if req.Schema == nil {
		return nil, fmt.Errorf("extraction schema is required")
	}
	if req.Content == "" {
		return nil, fmt.Errorf("extraction content is empty")
	}

	prompt := BuildExtractionPrompt(req.PromptTemplate, req.Schema, req.Content)

	var lastErr error
	for _, client := range s.clients {
		reply, err := client.Complete(ctx, prompt)
		if err != nil {
			s.logger.Warn("model provider failed, trying next",
				slog.String("provider", client.Name()),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		extracted, err := ParseModelJSON(reply)
		if err != nil {
			s.logger.Warn("model reply was not valid JSON, trying next",
				slog.String("provider", client.Name()),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		s.logger.Info("extraction complete",
			slog.String("provider", client.Name()),
			slog.String("schema", req.Schema.Name),
			slog.Int("fields", len(extracted)))

		return &entity.ExtractionResult{
			CompanyName: req.CompanyName,
			URL:         req.URL,
			SchemaUsed:  req.Schema.Name,
			PromptUsed:  prompt,
			Extracted:   extracted,
			RawContent:  reply,
			Model:       client.Model(),
			ExtractedAt: s.now().UTC(),
		}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no model provider configured")
	}
	return nil, fmt.Errorf("all model providers failed: %w", lastErr)
}
