package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/logger"
)

// tableSpec ties a table to its canonical DDL and a canary column probe.
// The canary selects a column introduced in the current schema version; if
// the probe fails the table (and its dependents) is dropped and recreated.
// Forward-only repair: no data survives an incompatible schema change.
type tableSpec struct {
	name   string
	canary string
	create string
	// dependents are child tables dropped first when this table is stale,
	// since SQLite will not drop a referenced parent out from under them.
	dependents []string
}

var tables = []tableSpec{
	{
		name:   "users",
		canary: "SELECT profile_completion_score FROM users LIMIT 1",
		create: `
			CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT '',
				bio TEXT NOT NULL DEFAULT '',
				university TEXT NOT NULL DEFAULT '',
				major TEXT NOT NULL DEFAULT '',
				year TEXT NOT NULL DEFAULT '',
				profile_picture TEXT NOT NULL DEFAULT '',
				profile_completion_score INTEGER NOT NULL DEFAULT 0,
				last_login_at TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		dependents: []string{"feedback", "reminders"},
	},
	{
		name:   "reminders",
		canary: "SELECT priority FROM reminders LIMIT 1",
		create: `
			CREATE TABLE IF NOT EXISTS reminders (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				due_date TEXT NOT NULL,
				is_completed INTEGER NOT NULL DEFAULT 0,
				priority TEXT NOT NULL DEFAULT 'medium',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
			)`,
	},
	{
		name:   "feedback",
		canary: "SELECT status FROM feedback LIMIT 1",
		create: `
			CREATE TABLE IF NOT EXISTS feedback (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				subject TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
			)`,
	},
	{
		name:   "session_cache",
		canary: "SELECT value FROM session_cache LIMIT 1",
		create: `
			CREATE TABLE IF NOT EXISTS session_cache (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`,
	},
}

var indexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)",
	"CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders (user_id)",
	"CREATE INDEX IF NOT EXISTS idx_reminders_due_date ON reminders (due_date)",
	"CREATE INDEX IF NOT EXISTS idx_feedback_user_id ON feedback (user_id)",
	"CREATE INDEX IF NOT EXISTS idx_feedback_status ON feedback (status)",
}

// ensureSchema guarantees the on-disk schema matches the expected shape
// before any query runs. Stale tables are dropped and recreated; every
// CREATE is idempotent, so the final pass also covers a fresh file.
func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, t := range tables {
		var probe any
		err := db.GetContext(ctx, &probe, t.canary)
		if err == nil || errors.Is(err, sql.ErrNoRows) {
			continue
		}

		logger.Log.Warnw("stale schema detected, recreating table", "table", t.name, "error", err)
		for _, dep := range t.dependents {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+dep); err != nil {
				return apperrors.Wrap(err, apperrors.CodeStorage, "failed to drop dependent table").
					WithMeta("table", dep)
			}
		}
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+t.name); err != nil {
			return apperrors.Wrap(err, apperrors.CodeStorage, "failed to drop stale table").
				WithMeta("table", t.name)
		}
	}

	for _, t := range tables {
		if _, err := db.ExecContext(ctx, t.create); err != nil {
			return apperrors.Wrap(err, apperrors.CodeStorage, "failed to create table").
				WithMeta("table", t.name)
		}
	}
	return nil
}

// createIndexes creates the lookup indexes if they do not already exist.
func createIndexes(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(err, apperrors.CodeStorage, "failed to create index").
				WithMeta("query", compact(stmt))
		}
	}
	return nil
}
