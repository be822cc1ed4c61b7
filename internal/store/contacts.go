package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a contact or schedule does not exist.
var ErrNotFound = errors.New("not found")

// AddContact inserts a new contact and returns it with its assigned ID.
func (s *SQLiteStore) AddContact(ctx context.Context, name string) (*Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("contact name is empty")
	}

	c := &Contact{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting contact: %w", err)
	}
	return c, nil
}

// GetContact returns a contact by ID, or ErrNotFound.
func (s *SQLiteStore) GetContact(ctx context.Context, id string) (*Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM contacts WHERE id = ?`, id,
	)
	return scanContact(row)
}

// FindContactByName returns the oldest contact with the exact name, or
// ErrNotFound. Display names are not unique; first-created wins.
func (s *SQLiteStore) FindContactByName(ctx context.Context, name string) (*Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM contacts
		 WHERE name = ? ORDER BY created_at ASC LIMIT 1`,
		strings.TrimSpace(name),
	)
	return scanContact(row)
}

// ListContacts returns all contacts ordered by creation time.
func (s *SQLiteStore) ListContacts(ctx context.Context) ([]*Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM contacts ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		var c Contact
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0).UTC()
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

// DeleteContact removes a contact. Its schedule records go with it via
// the foreign-key cascade.
func (s *SQLiteStore) DeleteContact(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanContact(row *sql.Row) (*Contact, error) {
	var c Contact
	var createdAt int64
	if err := row.Scan(&c.ID, &c.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning contact: %w", err)
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &c, nil
}
