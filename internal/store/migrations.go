package store

import "fmt"

// migrate creates all tables if they don't exist and seeds metadata.
func (s *SQLiteStore) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS contacts (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(name)`,

		// date is "YYYY-MM-DD"; time is "HH:MM" or NULL (no time phrase
		// found). type is one of meeting/call/event/other, enforced on
		// insert rather than by CHECK so old rows survive rule changes.
		`CREATE TABLE IF NOT EXISTS schedules (
			id          TEXT PRIMARY KEY,
			contact_id  TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date        TEXT NOT NULL,
			time        TEXT,
			type        TEXT NOT NULL DEFAULT 'other',
			created_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_contact ON schedules(contact_id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules(date)`,

		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	if err := s.seedMeta(); err != nil {
		return fmt.Errorf("seeding metadata: %w", err)
	}

	return nil
}

// seedMeta records the schema version on first creation.
func (s *SQLiteStore) seedMeta() error {
	_, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES ('schema_version', '1')
		 ON CONFLICT(key) DO NOTHING`,
	)
	return err
}
