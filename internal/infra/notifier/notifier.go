// Package notifier provides outbound chat-webhook delivery for email-open
// notifications. It defines the destination-agnostic Message shape, the
// Sender interface, and a Discord webhook implementation.
//
// Destinations are resolved once at startup from either a single webhook
// URL or a JSON config file; see LoadDestinations.
package notifier

import (
	"context"
)

// Destination is one configured notification target.
type Destination struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Field is one structured key/value pair of a rendered notification.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Message is a destination-agnostic rendered notification. A Message with
// only Text set is delivered as plain content rather than an embed.
type Message struct {
	Title  string
	Fields []Field
	// Link is an optional deep link attached to the notification title.
	Link   string
	Footer string
	Color  int
	Text   string
}

// Sender delivers a rendered message to a single webhook URL.
// Implementations handle rate limiting and map HTTP failures to the typed
// errors in this package.
type Sender interface {
	Send(ctx context.Context, webhookURL string, msg Message) error
}
