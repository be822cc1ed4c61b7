// Package store provides the SQLite storage layer for cardnote.
//
// All data lives in a single SQLite database file:
// - Contacts (the aggregate roots)
// - Schedule records extracted from free-text notes, keyed by contact
//
// Schedule records are child entities of a contact: deleting a contact
// cascades to its records. IDs are UUIDs assigned here on insert — the
// extraction engine never assigns identifiers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cardnote-app/cardnote/internal/schedule"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.cardnote/cardnote.db"

// Contact is a minimal contact aggregate: just enough identity for the
// schedule store to key records by. The full card/CRM profile lives in
// the mini-app, outside this module.
type Contact struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ListOpts controls filtering and pagination for ListSchedules.
type ListOpts struct {
	ContactID string // filter by contact; "" means all contacts
	Limit     int
	Offset    int
}

// Stats holds observability counts about the store.
type Stats struct {
	ContactCount  int64
	ScheduleCount int64
	DBSizeBytes   int64
}

// Store defines the persistence interface.
type Store interface {
	// Contacts
	AddContact(ctx context.Context, name string) (*Contact, error)
	GetContact(ctx context.Context, id string) (*Contact, error)
	FindContactByName(ctx context.Context, name string) (*Contact, error)
	ListContacts(ctx context.Context) ([]*Contact, error)
	DeleteContact(ctx context.Context, id string) error

	// Schedule records
	AddSchedule(ctx context.Context, r *schedule.Record) (string, error)
	GetSchedule(ctx context.Context, id string) (*schedule.Record, error)
	ListSchedules(ctx context.Context, opts ListOpts) ([]*schedule.Record, error)
	DeleteSchedule(ctx context.Context, id string) error

	// Observability
	Stats(ctx context.Context) (*Stats, error)

	Close() error
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// Config holds configuration for NewStore.
type Config struct {
	DBPath string
}

// NewStore creates a new SQLite-backed Store.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg Config) (Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = expandPath(DefaultDBPath)
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	// Pragmas ride on the DSN so every pooled connection gets them.
	// Running PRAGMA via db.Exec would configure only the one connection
	// it happens to land on, and the cascade delete depends on
	// foreign_keys being on for whichever connection runs the DELETE.
	const pragmas = "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	dsn := cfg.DBPath + pragmas
	if cfg.DBPath == ":memory:" {
		dsn = "file::memory:" + pragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty
	// database, so pin the pool to a single connection.
	if cfg.DBPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Stats returns row counts and the database file size.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&stats.ContactCount); err != nil {
		return nil, fmt.Errorf("counting contacts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schedules").Scan(&stats.ScheduleCount); err != nil {
		return nil, fmt.Errorf("counting schedules: %w", err)
	}

	if s.dbPath != ":memory:" {
		if info, err := os.Stat(s.dbPath); err == nil {
			stats.DBSizeBytes = info.Size()
		}
	}

	return stats, nil
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
