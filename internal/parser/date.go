package parser

import (
	"regexp"
	"strconv"
	"time"
)

// dateMatcher pairs a date expression with its resolution against "today".
// Like the recurrence table, order is precedence: 下周 with an attached
// weekday must be claimed whole before the bare 周X matcher could split it.
type dateMatcher struct {
	re      *regexp.Regexp
	resolve func(m []string, now time.Time) (time.Time, bool)
}

var dateMatchers = []dateMatcher{
	{regexp.MustCompile(`今天|今日`), offsetDays(0)},
	{regexp.MustCompile(`明天|明日`), offsetDays(1)},
	{regexp.MustCompile(`后天`), offsetDays(2)},
	{regexp.MustCompile(`下个月`), offsetDays(30)},
	{regexp.MustCompile(`下周([一二三四五六日天])?`), resolveNextWeek},
	{regexp.MustCompile(`(?:周|星期)([一二三四五六日天])`), resolveWeekday},
	{regexp.MustCompile(`([0-9]{1,2})月([0-9]{1,2})日?`), resolveAbsolute},
	{regexp.MustCompile(`([0-9]{1,2})/([0-9]{1,2})`), resolveAbsolute},
}

// extractDate resolves the first date expression against now and strips it.
func extractDate(text string, now time.Time) (string, *time.Time) {
	for _, matcher := range dateMatchers {
		loc := matcher.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		m := expandSubmatches(text, loc)
		date, ok := matcher.resolve(m, now)
		if !ok {
			continue
		}
		return text[:loc[0]] + text[loc[1]:], &date
	}
	return text, nil
}

func offsetDays(n int) func([]string, time.Time) (time.Time, bool) {
	return func(_ []string, now time.Time) (time.Time, bool) {
		return today(now).AddDate(0, 0, n), true
	}
}

// resolveNextWeek handles 下周 and 下周X. A bare 下周 is a plain +7 days;
// with a weekday it lands on that day inside the following Monday-started
// week, matching everyday usage of 下周一.
func resolveNextWeek(m []string, now time.Time) (time.Time, bool) {
	if m[1] == "" {
		return today(now).AddDate(0, 0, 7), true
	}
	toMonday := (8 - int(now.Weekday())) % 7
	if toMonday == 0 {
		toMonday = 7
	}
	wd := weekdayChars[m[1]]
	return today(now).AddDate(0, 0, toMonday+mondayIndex(wd)), true
}

// resolveWeekday maps 周X to the next occurrence of that weekday, always in
// the future: 周二 said on a Tuesday means a week from today.
func resolveWeekday(m []string, now time.Time) (time.Time, bool) {
	wd := weekdayChars[m[1]]
	days := (wd - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return today(now).AddDate(0, 0, days), true
}

// resolveAbsolute handles MM月DD日 and MM/DD. The year is the current one,
// rolled forward when the date has already passed.
func resolveAbsolute(m []string, now time.Time) (time.Time, bool) {
	month, err := strconv.Atoi(m[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	if date.Before(today(now)) {
		date = date.AddDate(1, 0, 0)
	}
	return date, true
}

// mondayIndex shifts the 0=Sunday numbering to a Monday-first offset.
func mondayIndex(wd int) int {
	return (wd + 6) % 7
}

func today(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
