package schedule

import (
	"fmt"
	"strings"
)

// titleRule is one business-scenario entry in the title table.
//
// triggers are the substrings that activate the rule; the first rule in
// declaration order with any trigger present in the text is applied.
// keywordSuffixes name the topic-keyword endings relevant to the rule:
// when an extracted keyword ends in one of them it is interpolated into
// the template, otherwise the template's generic form is used.
type titleRule struct {
	name            string
	triggers        []string
	keywordSuffixes []string
	build           func(contact, keyword string) string
}

func initTitleRules() []titleRule {
	return []titleRule{
		{
			name:            "product_proposal",
			triggers:        []string{"產品", "方案", "提案"},
			keywordSuffixes: []string{"產品", "方案"},
			build: func(c, kw string) string {
				if kw != "" {
					return fmt.Sprintf("與%s討論%s", c, kw)
				}
				return fmt.Sprintf("與%s討論產品方案", c)
			},
		},
		{
			name:     "cooperation_contract",
			triggers: []string{"合作", "合約", "簽約"},
			build: func(c, _ string) string {
				return fmt.Sprintf("與%s洽談合作事宜", c)
			},
		},
		{
			name:     "quotation",
			triggers: []string{"報價", "價格", "費用"},
			build: func(c, _ string) string {
				return fmt.Sprintf("與%s討論報價", c)
			},
		},
		{
			name:            "technical_system",
			triggers:        []string{"技術", "系統", "整合"},
			keywordSuffixes: []string{"系統", "服務"},
			build: func(c, kw string) string {
				if kw != "" {
					return fmt.Sprintf("與%s討論%s", c, kw)
				}
				return fmt.Sprintf("與%s討論技術細節", c)
			},
		},
		{
			name:     "training",
			triggers: []string{"培訓", "訓練", "教學"},
			build: func(c, _ string) string {
				return fmt.Sprintf("為%s安排教育訓練", c)
			},
		},
		{
			name:     "review",
			triggers: []string{"檢討", "回顧", "覆盤"},
			build: func(c, _ string) string {
				return fmt.Sprintf("與%s進行檢討會議", c)
			},
		},
		{
			name:     "kickoff",
			triggers: []string{"啟動", "開案"},
			build: func(c, _ string) string {
				return fmt.Sprintf("與%s專案啟動會議", c)
			},
		},
		{
			name:     "call_video",
			triggers: []string{"電話", "通話", "視訊"},
			build: func(c, _ string) string {
				return fmt.Sprintf("與%s電話會議", c)
			},
		},
		{
			name:     "visit",
			triggers: []string{"拜訪", "參觀", "見面"},
			build: func(c, _ string) string {
				return fmt.Sprintf("拜訪%s", c)
			},
		},
		{
			name:     "social",
			triggers: []string{"聚餐", "餐會", "聚會"},
			build: func(c, _ string) string {
				return fmt.Sprintf("與%s聚餐", c)
			},
		},
	}
}

// timeOfDayMarkers are the part-of-day phrases usable in the final title
// fallback, checked in this order.
var timeOfDayMarkers = []string{"上午", "早上", "中午", "下午", "晚上"}

// generateTitle composes a human-readable title from the text, the
// contact display name, and the extracted topic keywords. The result is
// never empty: the 「與X的會面」 fallback always applies.
func (e *Engine) generateTitle(text, contactName string, keywords []string) string {
	contact := strings.TrimSpace(contactName)
	if contact == "" {
		contact = fallbackContactName
	}

	for _, rule := range e.titleRules {
		if !containsAny(text, rule.triggers) {
			continue
		}
		return rule.build(contact, pickKeyword(keywords, rule.keywordSuffixes))
	}

	// No scenario rule matched — fall back on the first extracted keyword.
	if len(keywords) > 0 {
		return fmt.Sprintf("與%s討論%s", contact, keywords[0])
	}

	// Last resorts: a time-of-day meeting, then the plain meet-up title.
	for _, marker := range timeOfDayMarkers {
		if strings.Contains(text, marker) {
			return fmt.Sprintf("與%s的%s會議", contact, marker)
		}
	}
	return fmt.Sprintf("與%s的會面", contact)
}

// pickKeyword returns the first keyword whose ending makes it relevant to
// the rule, or "" when the rule takes no keyword or none fits.
func pickKeyword(keywords, suffixes []string) string {
	for _, kw := range keywords {
		for _, suffix := range suffixes {
			if strings.HasSuffix(kw, suffix) {
				return kw
			}
		}
	}
	return ""
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
