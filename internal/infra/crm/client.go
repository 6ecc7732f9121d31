// Package crm provides the Close-style CRM API client used for lead
// enrichment, event-log polling, and webhook subscription management.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"leadpulse/internal/domain/entity"
)

// UnknownLeadName is substituted when lead enrichment fails. Enrichment is
// best-effort and must never abort the ingestion pipeline.
const UnknownLeadName = "Unknown"

// Config contains configuration for the CRM API client.
type Config struct {
	// APIKey authenticates requests via HTTP basic auth (key as username).
	APIKey string

	// BaseURL is the API root, e.g. "https://api.close.com/api/v1".
	BaseURL string

	// WebhookSecret signs inbound webhooks. Empty means open mode:
	// signature verification is skipped.
	WebhookSecret string

	// Timeout is the HTTP request timeout for API calls.
	Timeout time.Duration
}

// Client calls the CRM REST API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a CRM client with the given configuration.
func NewClient(config Config, logger *slog.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// Lead is the subset of a CRM lead used for notification enrichment.
type Lead struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// GetLead fetches lead details by ID.
func (c *Client) GetLead(ctx context.Context, leadID string) (*Lead, error) {
	var lead Lead
	if err := c.getJSON(ctx, fmt.Sprintf("/lead/%s/", leadID), nil, &lead); err != nil {
		return nil, fmt.Errorf("get lead %s: %w", leadID, err)
	}
	return &lead, nil
}

// LeadDisplayName resolves a lead's display name, substituting
// UnknownLeadName on any failure.
func (c *Client) LeadDisplayName(ctx context.Context, leadID string) string {
	lead, err := c.GetLead(ctx, leadID)
	if err != nil || lead.DisplayName == "" {
		if err != nil {
			c.logger.Warn("lead enrichment failed, using sentinel",
				slog.String("lead_id", leadID),
				slog.Any("error", err))
		}
		return UnknownLeadName
	}
	return lead.DisplayName
}

// eventLogResponse is the envelope of the /event/ endpoint.
type eventLogResponse struct {
	Data []eventLogEntry `json:"data"`
}

type eventLogEntry struct {
	ObjectType    string          `json:"object_type"`
	Action        string          `json:"action"`
	ChangedFields []string        `json:"changed_fields"`
	Data          json.RawMessage `json:"data"`
}

// emailActivity is the email-activity payload embedded in event-log entries
// and webhook events.
type emailActivity struct {
	ID      string `json:"id"`
	LeadID  string `json:"lead_id"`
	Subject string `json:"subject"`
	To      []struct {
		Email string `json:"email"`
	} `json:"to"`
	Opens []struct {
		OpenedAt string `json:"opened_at"`
	} `json:"opens"`
}

// RecentEmailOpens queries the CRM event log for email-open events within
// the trailing lookback window and normalizes them into canonical events.
// Lead names are resolved best-effort; failures yield the Unknown sentinel.
func (c *Client) RecentEmailOpens(ctx context.Context, lookback time.Duration) ([]entity.OpenEvent, error) {
	params := url.Values{}
	params.Set("object_type", "activity.email")
	params.Set("action", "updated")
	params.Set("date_created__gt", time.Now().Add(-lookback).UTC().Format(time.RFC3339))
	params.Set("_limit", "100")

	var resp eventLogResponse
	if err := c.getJSON(ctx, "/event/", params, &resp); err != nil {
		return nil, fmt.Errorf("query event log: %w", err)
	}

	events := make([]entity.OpenEvent, 0, len(resp.Data))
	for _, entry := range resp.Data {
		if !contains(entry.ChangedFields, "opens") {
			continue
		}

		var activity emailActivity
		if err := json.Unmarshal(entry.Data, &activity); err != nil {
			c.logger.Warn("skipping malformed event-log entry", slog.Any("error", err))
			continue
		}
		if len(activity.Opens) == 0 || activity.ID == "" {
			continue
		}

		ev := normalizeActivity(activity)
		ev.LeadName = c.LeadDisplayName(ctx, ev.LeadID)
		events = append(events, ev)
	}
	return events, nil
}

// normalizeActivity maps the provider's email-activity shape into a
// canonical OpenEvent. The occurrence timestamp comes from the most recent
// open; an unparsable timestamp falls back to the current time.
func normalizeActivity(activity emailActivity) entity.OpenEvent {
	ev := entity.OpenEvent{
		EmailID:    activity.ID,
		LeadID:     activity.LeadID,
		Subject:    activity.Subject,
		OpensCount: len(activity.Opens),
		OpenedAt:   time.Now(),
	}
	if len(activity.To) > 0 {
		ev.Recipient = activity.To[0].Email
	}
	if len(activity.Opens) > 0 {
		if ts, ok := ParseEventTime(activity.Opens[len(activity.Opens)-1].OpenedAt); ok {
			ev.OpenedAt = ts
		}
	}
	return ev
}

// ParseEventTime parses the timestamp formats the CRM emits: RFC3339 with
// or without offset.
func ParseEventTime(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// WebhookSubscription is a registered webhook endpoint on the CRM side.
type WebhookSubscription struct {
	ID     string              `json:"id,omitempty"`
	URL    string              `json:"url"`
	Events []SubscriptionEvent `json:"events"`
}

// SubscriptionEvent names one event category a subscription covers.
type SubscriptionEvent struct {
	ObjectType string `json:"object_type"`
	Action     string `json:"action"`
}

// CreateWebhookSubscription registers a webhook endpoint. When events is
// empty it subscribes to email activity updates, the category this system
// monitors.
func (c *Client) CreateWebhookSubscription(ctx context.Context, webhookURL string, events []SubscriptionEvent) (*WebhookSubscription, error) {
	if len(events) == 0 {
		events = []SubscriptionEvent{{ObjectType: "activity.email", Action: "updated"}}
	}

	body, err := json.Marshal(WebhookSubscription{URL: webhookURL, Events: events})
	if err != nil {
		return nil, fmt.Errorf("marshal subscription: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/webhook_subscription/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.APIKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create subscription: status %d: %s", resp.StatusCode, string(respBody))
	}

	var sub WebhookSubscription
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return &sub, nil
}

// ListWebhookSubscriptions lists the registered webhook endpoints.
func (c *Client) ListWebhookSubscriptions(ctx context.Context) ([]WebhookSubscription, error) {
	var resp struct {
		Data []WebhookSubscription `json:"data"`
	}
	if err := c.getJSON(ctx, "/webhook_subscription/", nil, &resp); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return resp.Data, nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.config.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.config.APIKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, entity.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func contains(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
