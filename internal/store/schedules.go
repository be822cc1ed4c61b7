package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cardnote-app/cardnote/internal/schedule"
)

const dateLayout = "2006-01-02"

// AddSchedule inserts an extracted record and returns its assigned ID.
// The record invariants are enforced here: non-empty title, non-zero
// date, a known type, an in-range clock time, and an existing contact.
func (s *SQLiteStore) AddSchedule(ctx context.Context, r *schedule.Record) (string, error) {
	if r == nil {
		return "", fmt.Errorf("schedule record is nil")
	}
	if r.Title == "" {
		return "", fmt.Errorf("schedule title is empty")
	}
	if r.Date.IsZero() {
		return "", fmt.Errorf("schedule date is zero")
	}
	if !schedule.ValidType(r.Type) {
		return "", fmt.Errorf("invalid schedule type %q", r.Type)
	}
	if r.Time != nil && !r.Time.Valid() {
		return "", fmt.Errorf("invalid schedule time %d:%d", r.Time.Hour, r.Time.Minute)
	}
	if r.ContactID == "" {
		return "", fmt.Errorf("schedule has no contact id")
	}

	id := uuid.NewString()

	var timeStr sql.NullString
	if r.Time != nil {
		timeStr = sql.NullString{String: r.Time.String(), Valid: true}
	}

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedules (id, contact_id, title, description, date, time, type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.ContactID, r.Title, r.Description,
		r.Date.Format(dateLayout), timeStr, string(r.Type), createdAt.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting schedule: %w", err)
	}
	return id, nil
}

// GetSchedule returns a schedule record by ID, or ErrNotFound.
func (s *SQLiteStore) GetSchedule(ctx context.Context, id string) (*schedule.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, contact_id, title, description, date, time, type, created_at
		 FROM schedules WHERE id = ?`, id,
	)

	r, err := scanSchedule(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListSchedules returns records ordered by date then creation time,
// optionally filtered to one contact.
func (s *SQLiteStore) ListSchedules(ctx context.Context, opts ListOpts) ([]*schedule.Record, error) {
	query := `SELECT id, contact_id, title, description, date, time, type, created_at
	          FROM schedules`
	var args []any

	if opts.ContactID != "" {
		query += ` WHERE contact_id = ?`
		args = append(args, opts.ContactID)
	}
	query += ` ORDER BY date ASC, created_at ASC`

	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	var records []*schedule.Record
	for rows.Next() {
		r, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteSchedule removes a single schedule record.
func (s *SQLiteStore) DeleteSchedule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanSchedule reads one schedule row through the given Scan function.
func scanSchedule(scan func(dest ...any) error) (*schedule.Record, error) {
	var r schedule.Record
	var dateStr string
	var timeStr sql.NullString
	var typ string
	var createdAt int64

	if err := scan(&r.ID, &r.ContactID, &r.Title, &r.Description,
		&dateStr, &timeStr, &typ, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning schedule row: %w", err)
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule date %q: %w", dateStr, err)
	}
	r.Date = date
	r.Type = schedule.Type(typ)
	r.CreatedAt = time.Unix(createdAt, 0).UTC()

	if timeStr.Valid {
		var ct schedule.ClockTime
		if _, err := fmt.Sscanf(timeStr.String, "%d:%d", &ct.Hour, &ct.Minute); err != nil {
			return nil, fmt.Errorf("parsing schedule time %q: %w", timeStr.String, err)
		}
		r.Time = &ct
	}

	return &r, nil
}
