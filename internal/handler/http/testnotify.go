package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"leadpulse/internal/handler/http/respond"
	"leadpulse/internal/usecase/notify"
)

// TestNotificationHandler fires a test notification so operators can verify
// destination wiring without waiting for a real email open.
type TestNotificationHandler struct {
	Notifier notify.Service
}

type testNotificationRequest struct {
	Message     string `json:"message"`
	Destination string `json:"destination"`
}

func (h *TestNotificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.Error(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req testNotificationRequest
	if r.Body != nil {
		// An empty or absent body is fine; defaults apply.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Message == "" {
		req.Message = "Test notification"
	}

	results := h.Notifier.NotifyText(r.Context(), req.Message, req.Destination)

	deliveries := make([]map[string]any, 0, len(results))
	delivered := 0
	for _, res := range results {
		entry := map[string]any{
			"destination": res.Destination,
			"delivered":   res.Succeeded(),
		}
		if res.Err != nil {
			entry["error"] = res.Err.Error()
		} else {
			delivered++
		}
		deliveries = append(deliveries, entry)
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"delivered":  delivered,
		"attempted":  len(results),
		"deliveries": deliveries,
	})
}
