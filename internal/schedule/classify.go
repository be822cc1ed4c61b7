package schedule

import "strings"

// typeRule binds one interaction category to its trigger substrings.
// Rules are checked in declaration order and the first category with any
// trigger present wins — there is no scoring across categories, so a note
// mentioning both 電話 and 會議 classifies as a call.
type typeRule struct {
	typ      Type
	triggers []string
}

func initTypeRules() []typeRule {
	return []typeRule{
		{TypeCall, []string{"電話", "通話", "視訊"}},
		{TypeEvent, []string{"活動", "聚會", "餐會"}},
		{TypeMeeting, []string{"會議", "討論", "簡報"}},
	}
}

// classifyType assigns exactly one interaction category to the text,
// defaulting to TypeOther.
func (e *Engine) classifyType(text string) Type {
	for _, rule := range e.typeRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(text, trigger) {
				return rule.typ
			}
		}
	}
	return TypeOther
}
