package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations are applied in order on startup. Each statement is
// idempotent so a restart against an already-migrated database is a no-op.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS email_open_log (
		id           BIGSERIAL PRIMARY KEY,
		email_id     TEXT NOT NULL,
		lead_id      TEXT NOT NULL,
		lead_name    TEXT NOT NULL DEFAULT '',
		subject      TEXT NOT NULL DEFAULT '',
		recipient    TEXT NOT NULL DEFAULT '',
		opens_count  INTEGER NOT NULL DEFAULT 1,
		opened_at    TIMESTAMPTZ NOT NULL,
		notified_at  TIMESTAMPTZ NOT NULL,
		date_opened  TEXT NOT NULL,
		year_opened  INTEGER NOT NULL,
		month_opened INTEGER NOT NULL,
		hour_opened  INTEGER NOT NULL,
		day_of_week  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_open_log_lead_date
		ON email_open_log (lead_id, date_opened)`,
	`CREATE INDEX IF NOT EXISTS idx_open_log_recipient_date
		ON email_open_log (recipient, date_opened)`,
	`CREATE INDEX IF NOT EXISTS idx_open_log_date_opened
		ON email_open_log (date_opened DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_open_log_year_month
		ON email_open_log (year_opened, month_opened)`,
	`CREATE INDEX IF NOT EXISTS idx_open_log_email_opened
		ON email_open_log (email_id, opened_at)`,
}

// Migrate creates the analytics schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	slog.Info("database schema up to date", slog.Int("statements", len(migrations)))
	return nil
}
