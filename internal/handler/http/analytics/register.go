package analytics

import "net/http"

// Register mounts the analytics endpoints on the mux.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /analytics/summary", h.Summary)
	mux.HandleFunc("GET /analytics/recent", h.Recent)
	mux.HandleFunc("GET /analytics/by-date", h.ByDate)
	mux.HandleFunc("GET /analytics/by-lead/", h.ByLead)
	mux.HandleFunc("GET /analytics/top-leads", h.TopLeads)
	mux.HandleFunc("GET /analytics/time-of-day", h.TimeOfDay)
	mux.HandleFunc("GET /analytics/day-of-week", h.DayOfWeek)
	mux.HandleFunc("GET /analytics/engagement", h.Engagement)
	mux.HandleFunc("GET /analytics/export.csv", h.Export)
}
