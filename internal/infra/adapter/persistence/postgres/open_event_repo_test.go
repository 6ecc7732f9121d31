package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"leadpulse/internal/domain/entity"
	pg "leadpulse/internal/infra/adapter/persistence/postgres"
)

func sampleRecord() *entity.OpenRecord {
	openedAt := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) // a Wednesday
	return &entity.OpenRecord{
		ID: 1, EmailID: "em_1", LeadID: "lead_1", LeadName: "Acme Corp",
		Subject: "Intro call", Recipient: "a@example.com", OpensCount: 2,
		OpenedAt: openedAt, NotifiedAt: openedAt.Add(time.Minute),
		DateOpened: "2025-01-01", YearOpened: 2025, MonthOpened: 1,
		HourOpened: 10, DayOfWeek: 2,
	}
}

func recordRows(records ...*entity.OpenRecord) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "email_id", "lead_id", "lead_name", "subject", "recipient",
		"opens_count", "opened_at", "notified_at", "date_opened",
		"year_opened", "month_opened", "hour_opened", "day_of_week",
	})
	for _, r := range records {
		rows.AddRow(r.ID, r.EmailID, r.LeadID, r.LeadName, r.Subject, r.Recipient,
			r.OpensCount, r.OpenedAt, r.NotifiedAt, r.DateOpened,
			r.YearOpened, r.MonthOpened, r.HourOpened, r.DayOfWeek)
	}
	return rows
}

func TestOpenEventRepo_Append(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	record := sampleRecord()
	record.ID = 0

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO email_open_log")).
		WithArgs(record.EmailID, record.LeadID, record.LeadName, record.Subject,
			record.Recipient, record.OpensCount, record.OpenedAt, record.NotifiedAt,
			record.DateOpened, record.YearOpened, record.MonthOpened,
			record.HourOpened, record.DayOfWeek).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := pg.NewOpenEventRepo(db)
	if err := repo.Append(context.Background(), record); err != nil {
		t.Fatalf("Append err=%v", err)
	}
	if record.ID != 7 {
		t.Errorf("record.ID = %d, want 7", record.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenEventRepo_Recent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := sampleRecord()
	mock.ExpectQuery("FROM email_open_log").
		WithArgs(50).
		WillReturnRows(recordRows(want))

	repo := pg.NewOpenEventRepo(db)
	got, err := repo.Recent(context.Background(), 50)
	if err != nil {
		t.Fatalf("Recent err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenEventRepo_ByDateRange(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`date_opened >= (?s:.*)LIMIT`).
		WithArgs("2025-01-01", "2025-01-31", 10000).
		WillReturnRows(recordRows(sampleRecord()))

	repo := pg.NewOpenEventRepo(db)
	got, err := repo.ByDateRange(context.Background(), "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("ByDateRange err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestOpenEventRepo_ByLead_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`lead_id = (?s:.*)LIMIT`).
		WithArgs("lead_missing", 10000).
		WillReturnRows(recordRows())

	repo := pg.NewOpenEventRepo(db)
	got, err := repo.ByLead(context.Background(), "lead_missing")
	if err != nil {
		t.Fatalf("ByLead err=%v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0 (empty, not error)", len(got))
	}
}

func TestOpenEventRepo_Summary(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count", "emails", "leads"}).
			AddRow(int64(10), int64(7), int64(3)))

	repo := pg.NewOpenEventRepo(db)
	got, err := repo.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary err=%v", err)
	}
	if got.TotalOpens != 10 || got.UniqueEmails != 7 || got.UniqueLeads != 3 {
		t.Errorf("Summary = %+v", got)
	}
}

func TestOpenEventRepo_TopLeads(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("GROUP BY lead_id").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"lead_id", "lead_name", "total_opens", "unique_emails", "first_open", "last_open",
		}).
			AddRow("lead_1", "Acme Corp", int64(5), int64(3), "2025-01-01", "2025-01-20").
			AddRow("lead_2", "Globex", int64(5), int64(2), "2025-01-02", "2025-01-19"))

	repo := pg.NewOpenEventRepo(db)
	got, err := repo.TopLeads(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopLeads err=%v", err)
	}
	if len(got) != 2 || got[0].LeadID != "lead_1" || got[1].LeadID != "lead_2" {
		t.Errorf("TopLeads = %+v", got)
	}
}

func TestOpenEventRepo_ByDayOfWeek_Labels(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("GROUP BY day_of_week").
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "count", "leads"}).
			AddRow(0, int64(4), int64(2)).
			AddRow(6, int64(1), int64(1)))

	repo := pg.NewOpenEventRepo(db)
	got, err := repo.ByDayOfWeek(context.Background())
	if err != nil {
		t.Fatalf("ByDayOfWeek err=%v", err)
	}
	if got[0].DayName != "Monday" || got[1].DayName != "Sunday" {
		t.Errorf("labels = %q, %q; want Monday, Sunday", got[0].DayName, got[1].DayName)
	}
}

func TestOpenEventRepo_Engagement(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("date_opened >=").
		WithArgs("2025-01-02"). // 30 days before the reference time
		WillReturnRows(sqlmock.NewRows([]string{"total", "emails", "leads", "avg", "max"}).
			AddRow(int64(20), int64(12), int64(5), 1.67, int64(4)))

	repo := pg.NewOpenEventRepo(db)
	got, err := repo.Engagement(context.Background(), now, 30)
	if err != nil {
		t.Fatalf("Engagement err=%v", err)
	}
	if got.PeriodDays != 30 || got.TotalOpens != 20 || got.MaxOpensPerEmail != 4 {
		t.Errorf("Engagement = %+v", got)
	}
}
