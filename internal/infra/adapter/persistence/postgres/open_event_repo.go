package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leadpulse/internal/domain/entity"
	"leadpulse/internal/repository"
)

type OpenEventRepo struct {
	db *sql.DB
}

func NewOpenEventRepo(db *sql.DB) repository.OpenEventRepository {
	return &OpenEventRepo{db: db}
}

const openRecordColumns = `
id, email_id, lead_id, lead_name, subject, recipient, opens_count,
opened_at, notified_at, date_opened, year_opened, month_opened, hour_opened, day_of_week`

// maxQueryRows bounds the queries without a caller-supplied limit, the
// same ceiling the CSV export uses.
const maxQueryRows = 10000

func (repo *OpenEventRepo) Append(ctx context.Context, record *entity.OpenRecord) error {
	const query = `
INSERT INTO email_open_log
(email_id, lead_id, lead_name, subject, recipient, opens_count,
 opened_at, notified_at, date_opened, year_opened, month_opened, hour_opened, day_of_week)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		record.EmailID, record.LeadID, record.LeadName, record.Subject,
		record.Recipient, record.OpensCount, record.OpenedAt, record.NotifiedAt,
		record.DateOpened, record.YearOpened, record.MonthOpened,
		record.HourOpened, record.DayOfWeek,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

func (repo *OpenEventRepo) Recent(ctx context.Context, limit int) ([]*entity.OpenRecord, error) {
	const query = `
SELECT` + openRecordColumns + `
FROM email_open_log
ORDER BY opened_at DESC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows, limit)
}

func (repo *OpenEventRepo) ByDateRange(ctx context.Context, startDate, endDate string) ([]*entity.OpenRecord, error) {
	const query = `
SELECT` + openRecordColumns + `
FROM email_open_log
WHERE date_opened >= $1 AND date_opened <= $2
ORDER BY opened_at DESC
LIMIT $3`
	rows, err := repo.db.QueryContext(ctx, query, startDate, endDate, maxQueryRows)
	if err != nil {
		return nil, fmt.Errorf("ByDateRange: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows, 100)
}

func (repo *OpenEventRepo) ByLead(ctx context.Context, leadID string) ([]*entity.OpenRecord, error) {
	const query = `
SELECT` + openRecordColumns + `
FROM email_open_log
WHERE lead_id = $1
ORDER BY opened_at DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, leadID, maxQueryRows)
	if err != nil {
		return nil, fmt.Errorf("ByLead: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows, 100)
}

func (repo *OpenEventRepo) Summary(ctx context.Context) (*repository.Summary, error) {
	const query = `
SELECT COUNT(*), COUNT(DISTINCT email_id), COUNT(DISTINCT lead_id)
FROM email_open_log`
	var s repository.Summary
	if err := repo.db.QueryRowContext(ctx, query).Scan(&s.TotalOpens, &s.UniqueEmails, &s.UniqueLeads); err != nil {
		return nil, fmt.Errorf("Summary: %w", err)
	}
	return &s, nil
}

func (repo *OpenEventRepo) TopLeads(ctx context.Context, limit int) ([]repository.LeadActivity, error) {
	// Tie-break on lead_id keeps the ranking deterministic.
	const query = `
SELECT lead_id, lead_name, COUNT(*) AS total_opens, COUNT(DISTINCT email_id),
       MIN(date_opened), MAX(date_opened)
FROM email_open_log
GROUP BY lead_id, lead_name
ORDER BY total_opens DESC, lead_id ASC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("TopLeads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	leads := make([]repository.LeadActivity, 0, limit)
	for rows.Next() {
		var lead repository.LeadActivity
		if err := rows.Scan(&lead.LeadID, &lead.LeadName, &lead.TotalOpens,
			&lead.UniqueEmails, &lead.FirstOpen, &lead.LastOpen); err != nil {
			return nil, fmt.Errorf("TopLeads: Scan: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (repo *OpenEventRepo) ByHourOfDay(ctx context.Context) ([]repository.HourBucket, error) {
	const query = `
SELECT hour_opened, COUNT(*), COUNT(DISTINCT lead_id)
FROM email_open_log
GROUP BY hour_opened
ORDER BY hour_opened`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ByHourOfDay: %w", err)
	}
	defer func() { _ = rows.Close() }()

	buckets := make([]repository.HourBucket, 0, 24)
	for rows.Next() {
		var b repository.HourBucket
		if err := rows.Scan(&b.Hour, &b.OpensCount, &b.UniqueLeads); err != nil {
			return nil, fmt.Errorf("ByHourOfDay: Scan: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (repo *OpenEventRepo) ByDayOfWeek(ctx context.Context) ([]repository.WeekdayBucket, error) {
	const query = `
SELECT day_of_week, COUNT(*), COUNT(DISTINCT lead_id)
FROM email_open_log
GROUP BY day_of_week
ORDER BY day_of_week`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ByDayOfWeek: %w", err)
	}
	defer func() { _ = rows.Close() }()

	buckets := make([]repository.WeekdayBucket, 0, 7)
	for rows.Next() {
		var b repository.WeekdayBucket
		if err := rows.Scan(&b.DayOfWeek, &b.OpensCount, &b.UniqueLeads); err != nil {
			return nil, fmt.Errorf("ByDayOfWeek: Scan: %w", err)
		}
		if b.DayOfWeek >= 0 && b.DayOfWeek < len(entity.WeekdayLabels) {
			b.DayName = entity.WeekdayLabels[b.DayOfWeek]
		} else {
			b.DayName = "Unknown"
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (repo *OpenEventRepo) Engagement(ctx context.Context, now time.Time, days int) (*repository.EngagementMetrics, error) {
	const query = `
SELECT COUNT(*), COUNT(DISTINCT email_id), COUNT(DISTINCT lead_id),
       COALESCE(AVG(opens_count), 0), COALESCE(MAX(opens_count), 0)
FROM email_open_log
WHERE date_opened >= $1`
	cutoff := now.AddDate(0, 0, -days).Format("2006-01-02")

	metrics := repository.EngagementMetrics{PeriodDays: days}
	err := repo.db.QueryRowContext(ctx, query, cutoff).Scan(
		&metrics.TotalOpens, &metrics.UniqueEmails, &metrics.UniqueLeads,
		&metrics.AvgOpensPerEmail, &metrics.MaxOpensPerEmail)
	if err != nil {
		return nil, fmt.Errorf("Engagement: %w", err)
	}
	return &metrics, nil
}

// scanRecords drains rows into open records, preallocating for the
// expected result size.
func scanRecords(rows *sql.Rows, sizeHint int) ([]*entity.OpenRecord, error) {
	if sizeHint <= 0 {
		sizeHint = 50
	}
	records := make([]*entity.OpenRecord, 0, sizeHint)
	for rows.Next() {
		var r entity.OpenRecord
		if err := rows.Scan(&r.ID, &r.EmailID, &r.LeadID, &r.LeadName, &r.Subject,
			&r.Recipient, &r.OpensCount, &r.OpenedAt, &r.NotifiedAt, &r.DateOpened,
			&r.YearOpened, &r.MonthOpened, &r.HourOpened, &r.DayOfWeek); err != nil {
			return nil, fmt.Errorf("scan open record: %w", err)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}
