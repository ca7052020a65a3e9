package parser

import (
	"strings"

	"todo-planner/internal/model"
)

// priorityKeywords is scanned in order; the first keyword present in the
// text wins. 紧急 outranks 重要 so "紧急重要" reads as urgent.
var priorityKeywords = []struct {
	word  string
	level model.Priority
}{
	{"紧急", model.PriorityUrgent},
	{"重要", model.PriorityHigh},
	{"高", model.PriorityHigh},
	{"一般", model.PriorityMedium},
	{"中", model.PriorityMedium},
	{"低", model.PriorityLow},
}

// extractPriority finds the first priority keyword, strips it together with
// an optional leading ! or @ marker, and returns the remaining text. The
// bare 中 keyword is skipped when it starts 中午: that is the noon word the
// time stage owns, not a medium-priority marker.
func extractPriority(text string) (string, model.Priority) {
	for _, kw := range priorityKeywords {
		from := 0
		for {
			idx := strings.Index(text[from:], kw.word)
			if idx < 0 {
				break
			}
			idx += from
			end := idx + len(kw.word)
			if kw.word == "中" && strings.HasPrefix(text[end:], "午") {
				from = end
				continue
			}
			start := idx
			if start > 0 && (text[start-1] == '!' || text[start-1] == '@') {
				start--
			}
			return text[:start] + text[end:], kw.level
		}
	}
	return text, ""
}

// isPriorityKeyword reports whether a token is one of the priority words, so
// the tag stage can drop leftovers like "@紧急".
func isPriorityKeyword(token string) bool {
	for _, kw := range priorityKeywords {
		if token == kw.word {
			return true
		}
	}
	return false
}
