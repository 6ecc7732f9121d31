package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeConfig holds settings for the Anthropic extraction client.
type ClaudeConfig struct {
	// Model is the Claude model identifier, from ANTHROPIC_MODEL.
	Model string

	// MaxTokens caps the response size.
	MaxTokens int

	// Timeout bounds a single extraction call.
	Timeout time.Duration
}

// LoadClaudeConfig loads the Anthropic configuration from the environment.
func LoadClaudeConfig() ClaudeConfig {
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}
	return ClaudeConfig{
		Model:     model,
		MaxTokens: 2048,
		Timeout:   60 * time.Second,
	}
}

// Claude extracts structured data through the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	config ClaudeConfig
	logger *slog.Logger
}

// NewClaude creates an Anthropic-backed extractor with the given API key.
func NewClaude(apiKey string, logger *slog.Logger) *Claude {
	config := LoadClaudeConfig()

	logger.Info("initialized anthropic extractor",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &Claude{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		config: config,
		logger: logger,
	}
}

// Name identifies the provider in result metadata and logs.
func (c *Claude) Name() string { return "anthropic" }

// Model reports the configured model identifier.
func (c *Claude) Model() string { return c.config.Model }

// Complete sends one extraction prompt and returns the raw model reply.
func (c *Claude) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var reply string
	for _, block := range message.Content {
		reply += block.Text
	}
	if reply == "" {
		return "", fmt.Errorf("anthropic returned an empty reply")
	}
	return reply, nil
}
