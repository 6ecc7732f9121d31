package notify

import (
	"fmt"
	"strconv"
	"time"

	"leadpulse/internal/domain/entity"
	"leadpulse/internal/infra/notifier"
)

const (
	// maxSubjectLength bounds the free-text subject field before rendering.
	maxSubjectLength = 100
	truncationSuffix = "..."

	// openedColor is the green accent used for email-open embeds.
	openedColor = 3066993
	// errorColor is the red accent used for error notifications.
	errorColor = 15158332
)

// leadURLFormat deep-links a notification to the lead in the CRM UI.
const leadURLFormat = "https://app.close.com/lead/%s/"

// RenderOpenEvent builds the destination-agnostic notification for an
// email-open event.
func RenderOpenEvent(ev entity.OpenEvent) notifier.Message {
	msg := notifier.Message{
		Title: "📧 Email Opened",
		Color: openedColor,
		Fields: []notifier.Field{
			{Name: "Lead", Value: ev.LeadName, Inline: true},
			{Name: "Recipient", Value: ev.Recipient, Inline: true},
			{Name: "Subject", Value: notifier.Truncate(ev.Subject, maxSubjectLength, truncationSuffix)},
			{Name: "Opens Count", Value: strconv.Itoa(ev.OpensCount), Inline: true},
			{Name: "Opened At", Value: ev.OpenedAt.Format("2006-01-02 15:04:05"), Inline: true},
		},
		Footer: fmt.Sprintf("Email ID: %s", ev.EmailID),
	}
	if ev.LeadID != "" {
		msg.Link = fmt.Sprintf(leadURLFormat, ev.LeadID)
	}
	return msg
}

// RenderError builds an error notification.
func RenderError(detail string) notifier.Message {
	return notifier.Message{
		Title: "⚠️ Error in Email Notifier",
		Color: errorColor,
		Fields: []notifier.Field{
			{Name: "Detail", Value: notifier.Truncate(detail, 1000, truncationSuffix)},
		},
		Footer: time.Now().UTC().Format(time.RFC3339),
	}
}
