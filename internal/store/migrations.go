package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the event, signup and feedback tables. User references on
// record tables are deliberately not foreign keys: rows may outlive the user.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id      INTEGER PRIMARY KEY,
			name    TEXT NOT NULL,
			email   TEXT NOT NULL,
			avatar  TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			title           TEXT NOT NULL,
			host_id         INTEGER NOT NULL,
			start_time      TEXT,
			end_time        TEXT,
			max_attendees   INTEGER NOT NULL DEFAULT 0,
			parent_event_id INTEGER REFERENCES events(id)
		)`,

		`CREATE TABLE IF NOT EXISTS rsvps (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id      INTEGER NOT NULL REFERENCES events(id),
			user_id       INTEGER NOT NULL,
			created_at    TEXT NOT NULL,
			checked_in    BOOLEAN NOT NULL DEFAULT false,
			checked_in_at TEXT,
			UNIQUE (event_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS registrations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id      INTEGER NOT NULL REFERENCES events(id),
			user_id       INTEGER NOT NULL,
			created_at    TEXT NOT NULL,
			team_name     TEXT,
			responses     TEXT,
			payment_proof TEXT,
			participants  TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS waiting_list (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id      INTEGER NOT NULL REFERENCES events(id),
			user_id       INTEGER NOT NULL,
			created_at    TEXT NOT NULL,
			status        TEXT NOT NULL DEFAULT 'PENDING',
			team_name     TEXT,
			responses     TEXT,
			payment_proof TEXT,
			participants  TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS feedback (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id   INTEGER NOT NULL REFERENCES events(id),
			user_id    INTEGER NOT NULL,
			content    TEXT,
			emoji      TEXT,
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS invitations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id   INTEGER NOT NULL REFERENCES events(id),
			user_id    INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_events_parent ON events(parent_event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rsvps_event ON rsvps(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_event ON registrations(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_waiting_list_event ON waiting_list(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_event ON feedback(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invitations_event ON invitations(event_id)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
