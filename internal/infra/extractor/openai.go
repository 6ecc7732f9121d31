package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds settings for the OpenAI extraction client.
type OpenAIConfig struct {
	// Model is the chat model identifier, from OPENAI_MODEL.
	Model string

	// MaxTokens caps the response size.
	MaxTokens int

	// Timeout bounds a single extraction call.
	Timeout time.Duration
}

// LoadOpenAIConfig loads the OpenAI configuration from the environment.
func LoadOpenAIConfig() OpenAIConfig {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}
	return OpenAIConfig{
		Model:     model,
		MaxTokens: 2048,
		Timeout:   60 * time.Second,
	}
}

// OpenAI extracts structured data through the OpenAI chat completion
// API. It serves as the fallback provider when Anthropic is not
// configured or a call fails.
type OpenAI struct {
	client *openai.Client
	config OpenAIConfig
	logger *slog.Logger
}

// NewOpenAI creates an OpenAI-backed extractor with the given API key.
func NewOpenAI(apiKey string, logger *slog.Logger) *OpenAI {
	config := LoadOpenAIConfig()

	logger.Info("initialized openai extractor",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &OpenAI{
		client: openai.NewClient(apiKey),
		config: config,
		logger: logger,
	}
}

// Name identifies the provider in result metadata and logs.
func (o *OpenAI) Name() string { return "openai" }

// Model reports the configured model identifier.
func (o *OpenAI) Model() string { return o.config.Model }

// Complete sends one extraction prompt and returns the raw model reply.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned an empty reply")
	}
	return resp.Choices[0].Message.Content, nil
}
