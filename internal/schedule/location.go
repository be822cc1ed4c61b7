package schedule

import "regexp"

// locationRule is one place-reference pattern. Rules are tried in
// declaration order; the first rule that matches anywhere in the text is
// authoritative — no attempt is made to reconcile multiple candidates.
type locationRule struct {
	name string
	re   *regexp.Regexp
}

// breakChars are characters that terminate a place span: whitespace,
// punctuation, the connective particles that introduce a participant,
// and the label colons — a span must never begin inside a 地點:/地址:
// label, or the label text leaks into the extracted place.
const breakChars = `\s，。,、跟和與:：`

func initLocationRules() []locationRule {
	return []locationRule{
		// 在<place>開會 — the trailing activity verb is stripped.
		{
			name: "zai_verb",
			re:   regexp.MustCompile(`在([^` + breakChars + `]{1,12}?)(?:會議|開會|見面|討論|聚會)`),
		},
		// <place> ending in a location-noun suffix (台北辦公室, 君悅飯店).
		// Longer suffixes come first so 咖啡廳 wins over 廳-less 店 spans.
		{
			name: "noun_suffix",
			re: regexp.MustCompile(`([^` + breakChars + `在的到去了位]{1,8}` +
				`(?:會議室|辦公室|咖啡廳|餐廳|公司|大樓|廣場|中心|大廈|商場|飯店|酒店|店))`),
		},
		// Explicit 地點: / 地址: label up to the next delimiter.
		{
			name: "label",
			re:   regexp.MustCompile(`(?:地點|地址)[:：]\s*([^\s，。,、]+)`),
		},
		// A recognized city name plus its trailing span (高雄軟體園區).
		{
			name: "city",
			re: regexp.MustCompile(`((?:台北|臺北|新北|桃園|台中|臺中|台南|臺南|高雄|新竹|基隆|嘉義|彰化|南投|雲林|屏東|宜蘭|花蓮|台東|臺東|苗栗)` +
				`[^\s，。,、]*)`),
		},
	}
}

// extractLocation finds a place reference in text, or "" when none of the
// patterns match.
func (e *Engine) extractLocation(text string) string {
	for _, rule := range e.locationRules {
		if m := rule.re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
