// Package entity defines the core domain entities for the application.
// It contains the canonical event and research records shared by every
// service, along with domain-specific errors.
package entity

import "time"

// OpenEvent is the canonical, provider-independent representation of a
// single email-open occurrence reported by the CRM.
//
// EmailID is the dedup key: a notification is dispatched at most once per
// EmailID within the cache retention window. OpensCount may legitimately
// increase across redeliveries of the same EmailID.
type OpenEvent struct {
	EmailID    string
	LeadID     string
	LeadName   string
	Subject    string
	Recipient  string
	OpensCount int
	OpenedAt   time.Time
}

// OpenRecord is the durable, append-only projection of an OpenEvent stored
// for analytics. Derived date fields are computed once at write time so the
// read-side grouping queries stay cheap.
type OpenRecord struct {
	ID         int64
	EmailID    string
	LeadID     string
	LeadName   string
	Subject    string
	Recipient  string
	OpensCount int
	OpenedAt   time.Time
	NotifiedAt time.Time

	// Derived at write time.
	DateOpened  string // YYYY-MM-DD
	YearOpened  int
	MonthOpened int
	HourOpened  int // 0-23
	DayOfWeek   int // Monday=0 .. Sunday=6
}

// NewOpenRecord builds an OpenRecord from a canonical event, computing the
// derived date fields from the occurrence timestamp.
func NewOpenRecord(ev OpenEvent, notifiedAt time.Time) OpenRecord {
	return OpenRecord{
		EmailID:     ev.EmailID,
		LeadID:      ev.LeadID,
		LeadName:    ev.LeadName,
		Subject:     ev.Subject,
		Recipient:   ev.Recipient,
		OpensCount:  ev.OpensCount,
		OpenedAt:    ev.OpenedAt,
		NotifiedAt:  notifiedAt,
		DateOpened:  ev.OpenedAt.Format("2006-01-02"),
		YearOpened:  ev.OpenedAt.Year(),
		MonthOpened: int(ev.OpenedAt.Month()),
		HourOpened:  ev.OpenedAt.Hour(),
		DayOfWeek:   MondayIndexedWeekday(ev.OpenedAt.Weekday()),
	}
}

// MondayIndexedWeekday converts Go's Sunday-indexed weekday into the
// Monday=0 .. Sunday=6 convention used by the analytics store.
func MondayIndexedWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekdayLabels maps the Monday-indexed weekday to its display label.
var WeekdayLabels = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
