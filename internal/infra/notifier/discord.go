package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DiscordConfig contains configuration for the Discord webhook sender.
type DiscordConfig struct {
	// Timeout is the HTTP request timeout for webhook calls.
	Timeout time.Duration

	// RequestsPerSecond and Burst bound the outbound rate.
	// Discord webhooks allow 30 requests per minute (0.5 req/s).
	RequestsPerSecond float64
	Burst             int
}

// DefaultDiscordConfig returns the sender defaults.
func DefaultDiscordConfig() DiscordConfig {
	return DiscordConfig{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 0.5,
		Burst:             3,
	}
}

// DiscordSender delivers messages to Discord webhook URLs.
type DiscordSender struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewDiscordSender creates a DiscordSender with the given configuration.
func NewDiscordSender(config DiscordConfig) *DiscordSender {
	if config.Timeout <= 0 {
		config = DefaultDiscordConfig()
	}
	return &DiscordSender{
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(config.RequestsPerSecond, config.Burst),
	}
}

// discordPayload is the JSON body posted to a Discord webhook.
type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title     string              `json:"title,omitempty"`
	URL       string              `json:"url,omitempty"`
	Color     int                 `json:"color,omitempty"`
	Fields    []discordEmbedField `json:"fields,omitempty"`
	Footer    *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

// discordErrorResponse is the error body returned by the Discord API.
type discordErrorResponse struct {
	Message    string  `json:"message"`
	Code       int     `json:"code"`
	RetryAfter float64 `json:"retry_after"` // seconds
}

// buildPayload maps the destination-agnostic message onto Discord's embed
// shape. A text-only message becomes plain content.
func buildPayload(msg Message) discordPayload {
	if msg.Title == "" && len(msg.Fields) == 0 {
		return discordPayload{Content: msg.Text}
	}

	embed := discordEmbed{
		Title:     msg.Title,
		URL:       msg.Link,
		Color:     msg.Color,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if msg.Footer != "" {
		embed.Footer = &discordEmbedFooter{Text: msg.Footer}
	}

	return discordPayload{Embeds: []discordEmbed{embed}}
}

// Send posts the message to the given webhook URL. HTTP failures are mapped
// to the package's typed errors; callers decide whether a failure aborts
// anything (fan-out treats every failure as per-destination).
func (d *DiscordSender) Send(ctx context.Context, webhookURL string, msg Message) error {
	if err := d.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	jsonData, err := json.Marshal(buildPayload(msg))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    "Discord rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Discord API client error: %s", string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Discord API server error: %s", string(body)),
		}
	default:
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}

// extractRetryAfter reads the retry delay from the JSON body, falling back
// to the Retry-After header, then a 5 second default.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var discordErr discordErrorResponse
	if err := json.Unmarshal(body, &discordErr); err == nil && discordErr.RetryAfter > 0 {
		return time.Duration(discordErr.RetryAfter * float64(time.Second))
	}

	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return 5 * time.Second
}
