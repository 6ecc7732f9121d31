package analytics

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"leadpulse/internal/handler/http/respond"
)

var exportHeader = []string{
	"id", "email_id", "lead_id", "lead_name", "subject", "recipient",
	"opens_count", "opened_at", "date_opened", "hour_opened", "day_of_week",
}

// Export handles GET /analytics/export.csv?limit=N, streaming the newest
// records as CSV for spreadsheet import.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	limit := clampedQueryInt(r, "limit", maxExportRows, maxExportRows)

	records, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("email_opens_%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return
	}
	for _, record := range records {
		row := []string{
			strconv.FormatInt(record.ID, 10),
			record.EmailID,
			record.LeadID,
			record.LeadName,
			record.Subject,
			record.Recipient,
			strconv.Itoa(record.OpensCount),
			record.OpenedAt.Format(time.RFC3339),
			record.DateOpened,
			strconv.Itoa(record.HourOpened),
			strconv.Itoa(record.DayOfWeek),
		}
		if err := writer.Write(row); err != nil {
			return
		}
	}
	writer.Flush()
}
