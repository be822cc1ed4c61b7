package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cardnote-app/cardnote/internal/schedule"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStore(Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(contactID string) *schedule.Record {
	return &schedule.Record{
		ContactID:   contactID,
		Title:       "與王經理討論新產品方案",
		Description: "明天下午2點在台北辦公室跟王經理討論新產品方案",
		Date:        time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		Time:        &schedule.ClockTime{Hour: 14, Minute: 0},
		Type:        schedule.TypeMeeting,
		CreatedAt:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestContactLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.AddContact(ctx, "王經理")
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if c.ID == "" {
		t.Fatal("AddContact assigned no ID")
	}

	got, err := s.GetContact(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.Name != "王經理" {
		t.Errorf("Name = %q, want 王經理", got.Name)
	}

	byName, err := s.FindContactByName(ctx, "王經理")
	if err != nil {
		t.Fatalf("FindContactByName: %v", err)
	}
	if byName.ID != c.ID {
		t.Errorf("FindContactByName ID = %q, want %q", byName.ID, c.ID)
	}

	contacts, err := s.ListContacts(ctx)
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("ListContacts returned %d contacts, want 1", len(contacts))
	}

	if err := s.DeleteContact(ctx, c.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	if _, err := s.GetContact(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetContact after delete = %v, want ErrNotFound", err)
	}
}

func TestAddContact_EmptyName(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddContact(context.Background(), "  "); err == nil {
		t.Error("AddContact accepted an empty name")
	}
}

func TestScheduleRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.AddContact(ctx, "王經理")
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}

	rec := testRecord(c.ID)
	id, err := s.AddSchedule(ctx, rec)
	if err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}

	got, err := s.GetSchedule(ctx, id)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if got.Title != rec.Title {
		t.Errorf("Title = %q, want %q", got.Title, rec.Title)
	}
	if !got.Date.Equal(rec.Date) {
		t.Errorf("Date = %v, want %v", got.Date, rec.Date)
	}
	if got.Time == nil || *got.Time != *rec.Time {
		t.Errorf("Time = %v, want %v", got.Time, rec.Time)
	}
	if got.Type != schedule.TypeMeeting {
		t.Errorf("Type = %q, want meeting", got.Type)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestScheduleRoundTrip_NoTime(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, _ := s.AddContact(ctx, "陳經理")
	rec := testRecord(c.ID)
	rec.Time = nil

	id, err := s.AddSchedule(ctx, rec)
	if err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}

	got, err := s.GetSchedule(ctx, id)
	if err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if got.Time != nil {
		t.Errorf("Time = %v, want nil", *got.Time)
	}
}

func TestAddSchedule_Invariants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, _ := s.AddContact(ctx, "王經理")

	cases := []struct {
		name   string
		mutate func(r *schedule.Record)
	}{
		{"empty title", func(r *schedule.Record) { r.Title = "" }},
		{"zero date", func(r *schedule.Record) { r.Date = time.Time{} }},
		{"bad type", func(r *schedule.Record) { r.Type = "appointment" }},
		{"bad time", func(r *schedule.Record) { r.Time = &schedule.ClockTime{Hour: 25, Minute: 0} }},
		{"no contact", func(r *schedule.Record) { r.ContactID = "" }},
	}

	for _, tc := range cases {
		rec := testRecord(c.ID)
		tc.mutate(rec)
		if _, err := s.AddSchedule(ctx, rec); err == nil {
			t.Errorf("AddSchedule accepted record with %s", tc.name)
		}
	}

	// Unknown contact fails the foreign key constraint.
	rec := testRecord("no-such-contact")
	if _, err := s.AddSchedule(ctx, rec); err == nil {
		t.Error("AddSchedule accepted a record for an unknown contact")
	}
}

func TestListSchedules_ByContact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	wang, _ := s.AddContact(ctx, "王經理")
	chen, _ := s.AddContact(ctx, "陳經理")

	for i := 0; i < 3; i++ {
		rec := testRecord(wang.ID)
		rec.Date = rec.Date.AddDate(0, 0, i)
		if _, err := s.AddSchedule(ctx, rec); err != nil {
			t.Fatalf("AddSchedule: %v", err)
		}
	}
	if _, err := s.AddSchedule(ctx, testRecord(chen.ID)); err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}

	records, err := s.ListSchedules(ctx, ListOpts{ContactID: wang.ID})
	if err != nil {
		t.Fatalf("ListSchedules: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("ListSchedules returned %d records, want 3", len(records))
	}
	// Ordered by date ascending.
	for i := 1; i < len(records); i++ {
		if records[i].Date.Before(records[i-1].Date) {
			t.Error("ListSchedules not ordered by date")
		}
	}

	limited, err := s.ListSchedules(ctx, ListOpts{ContactID: wang.ID, Limit: 2})
	if err != nil {
		t.Fatalf("ListSchedules with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListSchedules limit=2 returned %d records", len(limited))
	}
}

// Deleting a contact must cascade to its schedule records.
func TestDeleteContact_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, _ := s.AddContact(ctx, "王經理")
	id, err := s.AddSchedule(ctx, testRecord(c.ID))
	if err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}

	if err := s.DeleteContact(ctx, c.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}

	if _, err := s.GetSchedule(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSchedule after contact delete = %v, want ErrNotFound", err)
	}
}

// Same cascade check against a file-backed database, where the pool
// opens fresh connections: foreign keys must be enforced on every
// connection, not just the first one opened.
func TestDeleteContact_CascadesFileBacked(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cardnote.db")
	s, err := NewStore(Config{DBPath: dbPath})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	c, err := s.AddContact(ctx, "王經理")
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	id, err := s.AddSchedule(ctx, testRecord(c.ID))
	if err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}

	if _, err := s.AddSchedule(ctx, testRecord("no-such-contact")); err == nil {
		t.Error("AddSchedule accepted a record for an unknown contact")
	}

	if err := s.DeleteContact(ctx, c.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	if _, err := s.GetSchedule(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSchedule after contact delete = %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, _ := s.AddContact(ctx, "王經理")
	if _, err := s.AddSchedule(ctx, testRecord(c.ID)); err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.ContactCount != 1 || stats.ScheduleCount != 1 {
		t.Errorf("Stats = %+v, want 1 contact and 1 schedule", stats)
	}
}
