package export

import (
	"strings"
	"testing"
	"time"

	"github.com/cardnote-app/cardnote/internal/schedule"
)

func TestICS_TimedEvent(t *testing.T) {
	rec := &schedule.Record{
		ID:          "abc-123",
		Title:       "與王經理討論新產品方案",
		Description: "明天下午2點跟王經理討論新產品方案",
		Date:        time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		Time:        &schedule.ClockTime{Hour: 14, Minute: 0},
		Type:        schedule.TypeMeeting,
		CreatedAt:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	out := ICS([]*schedule.Record{rec}, time.UTC)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:abc-123@cardnote",
		"20260311T140000",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "SUMMARY:") {
		t.Errorf("output missing summary:\n%s", out)
	}
}

func TestICS_AllDayWhenNoTime(t *testing.T) {
	rec := &schedule.Record{
		ID:    "def-456",
		Title: "拜訪陳經理",
		Date:  time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Type:  schedule.TypeOther,
	}

	out := ICS([]*schedule.Record{rec}, time.UTC)

	if !strings.Contains(out, "VALUE=DATE") {
		t.Errorf("expected all-day event, got:\n%s", out)
	}
	if !strings.Contains(out, "20260312") {
		t.Errorf("output missing date:\n%s", out)
	}
}

func TestICS_Empty(t *testing.T) {
	out := ICS(nil, nil)
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Errorf("expected empty calendar envelope, got:\n%s", out)
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Errorf("expected no events, got:\n%s", out)
	}
}
