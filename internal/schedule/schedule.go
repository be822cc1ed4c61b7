// Package schedule infers structured schedule records from short free-text
// notes without an LLM or external NLP API.
//
// The extraction pipeline is a fixed sequence of independent rule-based
// extractors:
//   - date/time (relative markers, absolute 月/日 dates, clock patterns)
//   - location (suffix/prefix keyword patterns)
//   - topic keywords (domain-suffix and topic-marker patterns)
//   - interaction type (meeting, call, event, other)
//   - title (ordered business-scenario rule table with fallbacks)
//
// Each extractor's priority order is data — an ordered slice of pattern
// rules evaluated first-match-wins — so precedence is testable per rule.
// The pipeline is pure: the invocation instant is an explicit parameter,
// and every invocation allocates only local state, so an Engine is safe
// for concurrent use.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Type is the interaction category assigned to a record.
type Type string

const (
	TypeMeeting Type = "meeting"
	TypeCall    Type = "call"
	TypeEvent   Type = "event"
	TypeOther   Type = "other"
)

// ValidType reports whether t is one of the four enumerated categories.
func ValidType(t Type) bool {
	switch t {
	case TypeMeeting, TypeCall, TypeEvent, TypeOther:
		return true
	}
	return false
}

// ClockTime is a 24-hour clock time extracted from text.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Valid reports whether the clock time is in range.
func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// String renders the time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Record is the structured output of one extraction call.
//
// ID is assigned by the store on insert, never by the engine. Date is
// always populated (defaulting to the invocation date); Time is nil when
// no clock phrase was found. A Record is immutable once produced —
// re-extraction yields a brand-new candidate record.
type Record struct {
	ID          string     `json:"id,omitempty"`
	ContactID   string     `json:"contact_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	Time        *ClockTime `json:"time,omitempty"`
	Type        Type       `json:"type"`
	CreatedAt   time.Time  `json:"created_at"`
}

// participantLabel and locationLabel prefix the annotations appended to a
// record's description. The idempotence guards below match on the full
// annotation string, so re-extracting an already-annotated description
// never duplicates a line.
const (
	participantLabel = "參與者："
	locationLabel    = "地點："
)

// fallbackContactName stands in for an empty contact display name so the
// non-empty title invariant holds for callers that pass no contact.
const fallbackContactName = "聯絡人"

// Engine runs the extraction pipeline. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	dateRules     []relativeDateRule
	timeRules     []timeRule
	locationRules []locationRule
	keywordRules  []keywordRule
	typeRules     []typeRule
	titleRules    []titleRule
}

// NewEngine creates an Engine with all rule tables initialized in their
// documented priority order.
func NewEngine() *Engine {
	return &Engine{
		dateRules:     initRelativeDateRules(),
		timeRules:     initTimeRules(),
		locationRules: initLocationRules(),
		keywordRules:  initKeywordRules(),
		typeRules:     initTypeRules(),
		titleRules:    initTitleRules(),
	}
}

// Extract runs the full pipeline against text and assembles a Record.
//
// now is the invocation instant; relative date markers resolve against it
// and it becomes the record's CreatedAt. The returned record always has a
// non-empty Title, a non-zero Date, and a valid Type. Extract performs no
// I/O and has no side effects beyond constructing the value.
func (e *Engine) Extract(text, contactName, contactID string, now time.Time) Record {
	dt := e.extractDateTime(text, now)
	location := e.extractLocation(text)
	keywords := e.extractKeywords(text)
	typ := e.classifyType(text)
	title := e.generateTitle(text, contactName, keywords)

	date := dt.Date
	if date.IsZero() {
		date = dayOf(now)
	}

	desc := text
	if name := strings.TrimSpace(contactName); name != "" {
		desc = appendAnnotation(desc, participantLabel, name)
	}
	if location != "" {
		desc = appendAnnotation(desc, locationLabel, location)
	}

	return Record{
		ContactID:   contactID,
		Title:       title,
		Description: desc,
		Date:        date,
		Time:        dt.Time,
		Type:        typ,
		CreatedAt:   now,
	}
}

// appendAnnotation appends "\n<label><value>" unless that exact annotation
// already appears in the description.
func appendAnnotation(desc, label, value string) string {
	if strings.Contains(desc, label+value) {
		return desc
	}
	return desc + "\n" + label + value
}

// dayOf truncates an instant to its calendar date, keeping the location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
