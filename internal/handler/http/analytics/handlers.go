// Package analytics serves the read-side API over the append-only
// email-open log: summaries, rankings, time groupings, and CSV export.
package analytics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"leadpulse/internal/domain/entity"
	"leadpulse/internal/handler/http/pathutil"
	"leadpulse/internal/handler/http/respond"
	"leadpulse/internal/repository"
)

// Result caps keep one request from dragging the whole log across the wire.
const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500

	defaultTopLeadsLimit = 10
	maxTopLeadsLimit     = 100

	defaultEngagementDays = 30
	maxEngagementDays     = 365

	maxExportRows = 10000
)

// Handler serves the analytics endpoints.
type Handler struct {
	repo repository.OpenEventRepository
}

// NewHandler creates the analytics handler over the given store.
func NewHandler(repo repository.OpenEventRepository) *Handler {
	return &Handler{repo: repo}
}

// Summary handles GET /analytics/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.Summary(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}

// Recent handles GET /analytics/recent?limit=N.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := clampedQueryInt(r, "limit", defaultRecentLimit, maxRecentLimit)

	records, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"records": toRecordDTOs(records),
	})
}

// ByDate handles GET /analytics/by-date?start_date=&end_date=.
func (h *Handler) ByDate(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	if err := validateDate("start_date", startDate); err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}
	if err := validateDate("end_date", endDate); err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}
	if endDate < startDate {
		respond.Error(w, http.StatusBadRequest, errors.New("end_date must be on or after start_date"))
		return
	}

	records, err := h.repo.ByDateRange(r.Context(), startDate, endDate)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"start_date": startDate,
		"end_date":   endDate,
		"count":      len(records),
		"records":    toRecordDTOs(records),
	})
}

// ByLead handles GET /analytics/by-lead/{lead_id}. A lead with no recorded
// opens is a 404 at this boundary even though the store reports it as an
// empty result.
func (h *Handler) ByLead(w http.ResponseWriter, r *http.Request) {
	leadID, err := pathutil.ExtractParam(r.URL.Path, "/analytics/by-lead/")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, errors.New("invalid lead id"))
		return
	}

	records, err := h.repo.ByLead(r.Context(), leadID)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(records) == 0 {
		respond.Error(w, http.StatusNotFound, errors.New("no opens found for lead"))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"lead_id":   leadID,
		"lead_name": records[0].LeadName,
		"count":     len(records),
		"records":   toRecordDTOs(records),
	})
}

// TopLeads handles GET /analytics/top-leads?limit=N.
func (h *Handler) TopLeads(w http.ResponseWriter, r *http.Request) {
	limit := clampedQueryInt(r, "limit", defaultTopLeadsLimit, maxTopLeadsLimit)

	leads, err := h.repo.TopLeads(r.Context(), limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"count": len(leads),
		"leads": leads,
	})
}

// TimeOfDay handles GET /analytics/time-of-day.
func (h *Handler) TimeOfDay(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.repo.ByHourOfDay(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"hours": buckets})
}

// DayOfWeek handles GET /analytics/day-of-week.
func (h *Handler) DayOfWeek(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.repo.ByDayOfWeek(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"days": buckets})
}

// Engagement handles GET /analytics/engagement?days=N.
func (h *Handler) Engagement(w http.ResponseWriter, r *http.Request) {
	days := clampedQueryInt(r, "days", defaultEngagementDays, maxEngagementDays)

	metrics, err := h.repo.Engagement(r.Context(), time.Now().UTC(), days)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, metrics)
}

// clampedQueryInt reads a positive integer query parameter, applying the
// default when absent or unparsable and clamping to the maximum.
func clampedQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

func validateDate(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required: %w", field, entity.ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("%s must be in YYYY-MM-DD format: %w", field, entity.ErrInvalidInput)
	}
	return nil
}
