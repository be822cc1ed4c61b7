package schedule

import "regexp"

// keywordRule is one topic-keyword pattern. All rules run; results are
// set-deduplicated in pattern-declaration order, then first-occurrence
// order within a pattern.
type keywordRule struct {
	name string
	re   *regexp.Regexp
}

func initKeywordRules() []keywordRule {
	return []keywordRule{
		// Domain-suffix phrases: a short run ending in a business noun
		// (新產品, 報價方案, ERP系統). The suffix stays in the phrase.
		{
			name: "domain_suffix",
			re: regexp.MustCompile(`([^\s，。,、在跟和與的了討論關於]{1,8}` +
				`(?:產品|方案|系統|項目|服務))`),
		},
		// Topic markers: text following 討論/關於, marker stripped.
		{
			name: "after_discuss",
			re:   regexp.MustCompile(`討論([^\s，。,、]{1,12})`),
		},
		{
			name: "after_about",
			re:   regexp.MustCompile(`關於([^\s，。,、]{1,12})`),
		},
		// Topic markers: text preceding 相關/需求/問題, marker stripped.
		{
			name: "before_related",
			re:   regexp.MustCompile(`([^\s，。,、在跟和與的了]{1,10})(?:相關|需求|問題)`),
		},
	}
}

// extractKeywords pulls domain-relevant topic phrases from text.
// The result may be empty; duplicates across patterns are removed.
func (e *Engine) extractKeywords(text string) []string {
	var keywords []string
	seen := make(map[string]bool)

	for _, rule := range e.keywordRules {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			kw := m[1]
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}

	return keywords
}
