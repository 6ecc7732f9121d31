package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"leadpulse/internal/handler/http/respond"
	"leadpulse/internal/infra/cache"
)

// ConfigFlags reports which optional integrations are configured. Only
// booleans and counts, never the secrets themselves.
type ConfigFlags struct {
	CRMConfigured           bool `json:"crm_configured"`
	WebhookSecretConfigured bool `json:"webhook_secret_configured"`
	DatabaseConfigured      bool `json:"database_configured"`
	Destinations            int  `json:"destinations"`
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Config    ConfigFlags            `json:"config"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the outcome of one dependency check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler reports service health plus non-sensitive configuration
// state. The database check is the only one that can mark the service
// unhealthy; a missing database means analytics is disabled, not broken.
type HealthHandler struct {
	DB      *sql.DB
	Flags   ConfigFlags
	Version string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	status := "healthy"
	statusCode := http.StatusOK

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			checks["database"] = CheckStatus{Status: "unhealthy", Message: err.Error()}
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		} else {
			checks["database"] = CheckStatus{Status: "healthy"}
		}
	} else {
		checks["database"] = CheckStatus{Status: "disabled", Message: "analytics persistence not configured"}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Config:    h.Flags,
		Checks:    checks,
		Version:   h.Version,
	})
}

// StatsHandler exposes the dedup cache contents for operational debugging.
type StatsHandler struct {
	Cache *cache.EventCache
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	stats := h.Cache.Stats()
	respond.JSON(w, http.StatusOK, map[string]any{
		"cache_size":       stats.Size,
		"oldest_entry_age": stats.OldestEntryAge.String(),
		"retention":        stats.Retention.String(),
	})
}
