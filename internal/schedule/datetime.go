package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTimeResult holds the optional date and time resolved from text.
type DateTimeResult struct {
	Date time.Time // zero when no date phrase was found
	Time *ClockTime
}

// relativeDateRule maps a relative-day marker to an offset from the
// invocation date. Exactly one relative marker applies per call; the
// first marker in declaration order found in the text wins.
type relativeDateRule struct {
	marker string
	apply  func(day time.Time) time.Time
}

func initRelativeDateRules() []relativeDateRule {
	return []relativeDateRule{
		{"明天", func(d time.Time) time.Time { return d.AddDate(0, 0, 1) }},
		{"後天", func(d time.Time) time.Time { return d.AddDate(0, 0, 2) }},
		{"下週", func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }},
		{"下周", func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }},
		{"下個月", func(d time.Time) time.Time { return d.AddDate(0, 1, 0) }},
		{"下月", func(d time.Time) time.Time { return d.AddDate(0, 1, 0) }},
	}
}

// absoluteDateRE matches explicit 「X月Y日」 / 「X月Y號」 dates.
// An absolute date always overrides a relative marker.
var absoluteDateRE = regexp.MustCompile(`(\d{1,2})月(\d{1,2})[日號]`)

// timeRule is one clock-time pattern. Rules are tried in declaration
// order and only the first matching rule is applied; if its result is
// out of range the time is discarded entirely ("no time found") rather
// than falling through to later rules.
type timeRule struct {
	name    string
	re      *regexp.Regexp
	resolve func(m []string) ClockTime
}

func initTimeRules() []timeRule {
	return []timeRule{
		// 上午9點 / 早上9點30分 — 12 maps to 0, other hours unchanged.
		{
			name: "morning",
			re:   regexp.MustCompile(`(?:上午|早上)(\d{1,2})點(?:(\d{1,2})分)?`),
			resolve: func(m []string) ClockTime {
				h, min := atoi(m[1]), atoi(m[2])
				if h == 12 {
					h = 0
				}
				return ClockTime{Hour: h, Minute: min}
			},
		},
		// 下午2點 / 晚上8點15分 — add 12 unless already 12.
		{
			name: "afternoon",
			re:   regexp.MustCompile(`(?:下午|晚上|傍晚)(\d{1,2})點(?:(\d{1,2})分)?`),
			resolve: func(m []string) ClockTime {
				h, min := atoi(m[1]), atoi(m[2])
				if h != 12 {
					h += 12
				}
				return ClockTime{Hour: h, Minute: min}
			},
		},
		// 中午 / 中午12點 / 中午30分 — hour fixed at 12.
		{
			name: "noon",
			re:   regexp.MustCompile(`中午(?:(\d{1,2})點)?(?:(\d{1,2})分)?`),
			resolve: func(m []string) ClockTime {
				return ClockTime{Hour: 12, Minute: atoi(m[2])}
			},
		},
		// Bare 4點 / 4點30分 with no am/pm marker. Unmarked hours 1–6 are
		// treated as afternoon — a deliberate disambiguation policy: in
		// business notes a bare 「4點」 almost always means 16:00, at the
		// cost of misreading a genuine early-morning 「5點」.
		{
			name: "bare_hour",
			re:   regexp.MustCompile(`(\d{1,2})點(?:(\d{1,2})分)?`),
			resolve: func(m []string) ClockTime {
				h, min := atoi(m[1]), atoi(m[2])
				if h >= 1 && h <= 6 {
					h += 12
				}
				return ClockTime{Hour: h, Minute: min}
			},
		},
		// Explicit 14:30 numeric form, used verbatim.
		{
			name: "numeric",
			re:   regexp.MustCompile(`(\d{1,2}):(\d{2})`),
			resolve: func(m []string) ClockTime {
				return ClockTime{Hour: atoi(m[1]), Minute: atoi(m[2])}
			},
		},
	}
}

// extractDateTime resolves the calendar date and clock time from text.
// Both parts are optional and resolved independently.
func (e *Engine) extractDateTime(text string, now time.Time) DateTimeResult {
	var out DateTimeResult

	for _, rule := range e.dateRules {
		if strings.Contains(text, rule.marker) {
			out.Date = rule.apply(dayOf(now))
			break
		}
	}

	// Absolute beats relative: checked after, applied unconditionally.
	if m := absoluteDateRE.FindStringSubmatch(text); m != nil {
		month, day := atoi(m[1]), atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			out.Date = time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
		}
	}

	for _, rule := range e.timeRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		ct := rule.resolve(m)
		if ct.Valid() {
			out.Time = &ct
		}
		break
	}

	return out
}

// atoi parses a (possibly empty) submatch as a non-negative integer.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
