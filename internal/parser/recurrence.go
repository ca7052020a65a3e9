package parser

import (
	"regexp"
	"strconv"

	"todo-planner/internal/recurrence"
)

// weekdayChars maps the weekday characters used after 周/星期 to the
// 0=Sunday numbering. Both 日 and 天 mean Sunday.
var weekdayChars = map[string]int{
	"日": 0, "天": 0,
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6,
}

// recurrenceMatcher pairs a pattern with the rule it produces. The table is
// evaluated in order and the first match wins, so the most specific keyword
// families come first: 每工作日 must not fall through to a generic weekly
// match, and 每月15号 must claim its day before a bare 每月 could.
type recurrenceMatcher struct {
	re    *regexp.Regexp
	build func(m []string) recurrence.Rule
}

var recurrenceMatchers = []recurrenceMatcher{
	{
		re: regexp.MustCompile(`每?工作日`),
		build: func([]string) recurrence.Rule {
			return recurrence.Rule{Type: recurrence.Weekly, Interval: 1, DaysOfWeek: []int{1, 2, 3, 4, 5}}
		},
	},
	{
		re: regexp.MustCompile(`每日|每天|天天`),
		build: func([]string) recurrence.Rule {
			return recurrence.Rule{Type: recurrence.Daily, Interval: 1}
		},
	},
	{
		re: regexp.MustCompile(`(?:每周|每星期)([一二三四五六日天])?`),
		build: func(m []string) recurrence.Rule {
			rule := recurrence.Rule{Type: recurrence.Weekly, Interval: 1}
			if m[1] != "" {
				rule.DaysOfWeek = []int{weekdayChars[m[1]]}
			}
			return rule
		},
	},
	{
		re: regexp.MustCompile(`每个?月(?:([0-9]{1,2})[号日])?`),
		build: func(m []string) recurrence.Rule {
			rule := recurrence.Rule{Type: recurrence.Monthly, Interval: 1}
			if m[1] != "" {
				if day, err := strconv.Atoi(m[1]); err == nil && day >= 1 && day <= 31 {
					rule.DayOfMonth = day
				}
			}
			return rule
		},
	},
	{
		re: regexp.MustCompile(`每年`),
		build: func([]string) recurrence.Rule {
			return recurrence.Rule{Type: recurrence.Yearly, Interval: 1}
		},
	},
}

// extractRecurrence finds the first recurrence keyword family in the text,
// strips it and returns the rule it encodes, or nil when the text is not
// recurring.
func extractRecurrence(text string) (string, *recurrence.Rule) {
	for _, matcher := range recurrenceMatchers {
		loc := matcher.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		m := expandSubmatches(text, loc)
		rule := matcher.build(m)
		return text[:loc[0]] + text[loc[1]:], &rule
	}
	return text, nil
}

// expandSubmatches turns a FindStringSubmatchIndex result into the usual
// submatch slice, with "" for groups that did not participate.
func expandSubmatches(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		start, end := loc[2*i], loc[2*i+1]
		if start >= 0 {
			m[i] = text[start:end]
		}
	}
	return m
}
