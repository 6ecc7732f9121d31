package crm

import (
	"encoding/json"
	"fmt"

	"leadpulse/internal/domain/entity"
)

// WebhookEvent is the envelope the CRM POSTs to the webhook endpoint.
type WebhookEvent struct {
	Event struct {
		ObjectType    string          `json:"object_type"`
		Action        string          `json:"action"`
		ChangedFields []string        `json:"changed_fields"`
		Data          json.RawMessage `json:"data"`
	} `json:"event"`
}

// ParseWebhookEvent decodes a webhook body and, when it describes an
// email-open update, normalizes it into a canonical OpenEvent. The second
// return value reports whether the payload was an open event at all;
// non-open payloads (other object types, updates without new opens) are
// valid and simply skipped.
func ParseWebhookEvent(body []byte) (entity.OpenEvent, bool, error) {
	var envelope WebhookEvent
	if err := json.Unmarshal(body, &envelope); err != nil {
		return entity.OpenEvent{}, false, fmt.Errorf("decode webhook payload: %w", err)
	}

	ev := envelope.Event
	if ev.ObjectType != "activity.email" || ev.Action != "updated" {
		return entity.OpenEvent{}, false, nil
	}
	if !contains(ev.ChangedFields, "opens") {
		return entity.OpenEvent{}, false, nil
	}

	var activity emailActivity
	if err := json.Unmarshal(ev.Data, &activity); err != nil {
		return entity.OpenEvent{}, false, fmt.Errorf("decode email activity: %w", err)
	}
	if activity.ID == "" || len(activity.Opens) == 0 {
		return entity.OpenEvent{}, false, nil
	}

	return normalizeActivity(activity), true, nil
}
