// Package export renders schedule records as an iCalendar feed so the
// mini-app (or the user directly) can subscribe from a phone calendar.
package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/cardnote-app/cardnote/internal/schedule"
)

// DefaultDuration is assumed for timed records; the extraction rules
// only produce a start time.
const DefaultDuration = time.Hour

// ICS serializes records into a single VCALENDAR. Records without a
// clock time become all-day events. Event times are interpreted in loc.
func ICS(records []*schedule.Record, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//cardnote//schedule export//EN")

	for _, r := range records {
		ev := cal.AddEvent(eventUID(r))
		ev.SetDtStampTime(r.CreatedAt.UTC())
		ev.SetSummary(r.Title)
		if r.Description != "" {
			ev.SetDescription(r.Description)
		}

		y, m, d := r.Date.Date()
		if r.Time != nil {
			start := time.Date(y, m, d, r.Time.Hour, r.Time.Minute, 0, 0, loc)
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(DefaultDuration))
		} else {
			start := time.Date(y, m, d, 0, 0, 0, 0, loc)
			ev.SetAllDayStartAt(start)
			ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		}
	}

	return cal.Serialize()
}

// eventUID derives a stable UID so re-exports update rather than
// duplicate events in a subscribing calendar.
func eventUID(r *schedule.Record) string {
	if r.ID != "" {
		return fmt.Sprintf("%s@cardnote", r.ID)
	}
	// Unsaved records (parse-only previews) have no store ID.
	return fmt.Sprintf("%s-%s@cardnote", r.Date.Format("20060102"), r.Type)
}
