package analytics

import (
	"time"

	"leadpulse/internal/domain/entity"
)

// RecordDTO is the JSON projection of one open record.
type RecordDTO struct {
	ID         int64  `json:"id"`
	EmailID    string `json:"email_id"`
	LeadID     string `json:"lead_id"`
	LeadName   string `json:"lead_name"`
	Subject    string `json:"subject"`
	Recipient  string `json:"recipient"`
	OpensCount int    `json:"opens_count"`
	OpenedAt   string `json:"opened_at"`
	DateOpened string `json:"date_opened"`
	HourOpened int    `json:"hour_opened"`
	DayOfWeek  int    `json:"day_of_week"`
	DayName    string `json:"day_name"`
}

func toRecordDTO(record *entity.OpenRecord) RecordDTO {
	dto := RecordDTO{
		ID:         record.ID,
		EmailID:    record.EmailID,
		LeadID:     record.LeadID,
		LeadName:   record.LeadName,
		Subject:    record.Subject,
		Recipient:  record.Recipient,
		OpensCount: record.OpensCount,
		OpenedAt:   record.OpenedAt.Format(time.RFC3339),
		DateOpened: record.DateOpened,
		HourOpened: record.HourOpened,
		DayOfWeek:  record.DayOfWeek,
	}
	if record.DayOfWeek >= 0 && record.DayOfWeek < len(entity.WeekdayLabels) {
		dto.DayName = entity.WeekdayLabels[record.DayOfWeek]
	}
	return dto
}

func toRecordDTOs(records []*entity.OpenRecord) []RecordDTO {
	dtos := make([]RecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toRecordDTO(record))
	}
	return dtos
}
