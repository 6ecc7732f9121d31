// Package repository defines the persistence interfaces the usecases depend
// on, keeping infrastructure adapters swappable.
package repository

import (
	"context"
	"time"

	"leadpulse/internal/domain/entity"
)

// Summary is the whole-log aggregate for the analytics summary endpoint.
type Summary struct {
	TotalOpens   int64 `json:"total_opens"`
	UniqueEmails int64 `json:"unique_emails"`
	UniqueLeads  int64 `json:"unique_leads"`
}

// LeadActivity is one row of the top-leads ranking.
type LeadActivity struct {
	LeadID       string `json:"lead_id"`
	LeadName     string `json:"lead_name"`
	TotalOpens   int64  `json:"total_opens"`
	UniqueEmails int64  `json:"unique_emails"`
	FirstOpen    string `json:"first_open"`
	LastOpen     string `json:"last_open"`
}

// HourBucket is one row of the opens-by-hour grouping.
type HourBucket struct {
	Hour        int   `json:"hour"`
	OpensCount  int64 `json:"opens_count"`
	UniqueLeads int64 `json:"unique_leads"`
}

// WeekdayBucket is one row of the opens-by-weekday grouping
// (Monday=0 .. Sunday=6).
type WeekdayBucket struct {
	DayOfWeek   int    `json:"day_of_week"`
	DayName     string `json:"day_name"`
	OpensCount  int64  `json:"opens_count"`
	UniqueLeads int64  `json:"unique_leads"`
}

// EngagementMetrics summarizes engagement over a trailing day window.
type EngagementMetrics struct {
	PeriodDays       int     `json:"period_days"`
	TotalOpens       int64   `json:"total_opens"`
	UniqueEmails     int64   `json:"unique_emails"`
	UniqueLeads      int64   `json:"unique_leads"`
	AvgOpensPerEmail float64 `json:"avg_opens_per_email"`
	MaxOpensPerEmail int64   `json:"max_opens_per_email"`
}

// OpenEventRepository is the append-only analytics store for email-open
// records. Records are never updated or deleted; the read side serves the
// analytics endpoints.
type OpenEventRepository interface {
	// Append persists one open record and fills in its generated ID.
	Append(ctx context.Context, record *entity.OpenRecord) error

	// Recent returns the newest records by occurrence time, descending.
	Recent(ctx context.Context, limit int) ([]*entity.OpenRecord, error)

	// ByDateRange returns records whose occurrence date (YYYY-MM-DD) falls
	// within [startDate, endDate], newest first.
	ByDateRange(ctx context.Context, startDate, endDate string) ([]*entity.OpenRecord, error)

	// ByLead returns every record for one lead, newest first. An unknown
	// lead yields an empty slice; not-found signaling is the caller's call.
	ByLead(ctx context.Context, leadID string) ([]*entity.OpenRecord, error)

	// Summary returns whole-log totals.
	Summary(ctx context.Context) (*Summary, error)

	// TopLeads ranks leads by open count, ties broken by lead ID ascending
	// for a deterministic order.
	TopLeads(ctx context.Context, limit int) ([]LeadActivity, error)

	// ByHourOfDay groups opens by hour (0-23).
	ByHourOfDay(ctx context.Context) ([]HourBucket, error)

	// ByDayOfWeek groups opens by Monday-indexed weekday.
	ByDayOfWeek(ctx context.Context) ([]WeekdayBucket, error)

	// Engagement computes metrics over the trailing window ending now,
	// where the window starts `days` days before the given reference time.
	Engagement(ctx context.Context, now time.Time, days int) (*EngagementMetrics, error)
}
