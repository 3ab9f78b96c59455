package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so the API can run it unconditionally at startup.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'member',
			request_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_by    TEXT NOT NULL DEFAULT '',
			modified_by   TEXT NOT NULL DEFAULT '',
			modified_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS hackathons (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			organizer   TEXT NOT NULL DEFAULT '',
			location    TEXT NOT NULL DEFAULT '',
			mode        TEXT NOT NULL DEFAULT '',
			ppt_needed  TEXT NOT NULL DEFAULT '',
			registered  TEXT NOT NULL DEFAULT '',
			start_date  TEXT NOT NULL DEFAULT '',
			end_date    TEXT NOT NULL DEFAULT '',
			team_size   INTEGER NOT NULL DEFAULT 0,
			team_code   TEXT NOT NULL DEFAULT '',
			link        TEXT NOT NULL DEFAULT '',
			created_by  TEXT NOT NULL DEFAULT '',
			modified_by TEXT NOT NULL DEFAULT '',
			modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id          BIGSERIAL PRIMARY KEY,
			action      TEXT NOT NULL,
			target_user TEXT NOT NULL,
			actor       TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
