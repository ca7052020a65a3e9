package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	timePattern   = regexp.MustCompile(`([0-9]{1,2})[:：点]([0-9]{1,2})?分?`)
	periodPattern = regexp.MustCompile(`上午|下午|早上|晚上|今晚|今夜|中午`)
)

// extractTime finds an hour[:minute] expression, converts it to 24-hour
// using any period word present anywhere in the text, and strips both.
//
// Conversion rules: 下午/晚上/今晚/今夜 add 12 to hours below 12; 上午/早上
// turn hour 12 into 0; 中午 forces hour 12, discarding the parsed hour, so
// "中午1点" reads as noon. Without a period word an hour in 0..23 is taken
// as a 24-hour literal.
func extractTime(text string, now time.Time) (string, *time.Time) {
	loc := timePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, nil
	}
	m := expandSubmatches(text, loc)

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return text, nil
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return text, nil
		}
	}

	period := periodPattern.FindString(text)
	switch period {
	case "下午", "晚上", "今晚", "今夜":
		if hour < 12 {
			hour += 12
		}
	case "上午", "早上":
		if hour == 12 {
			hour = 0
		}
	case "中午":
		hour = 12
	}

	stripped := text[:loc[0]] + text[loc[1]:]
	if period != "" {
		stripped = strings.Replace(stripped, period, "", 1)
	}

	year, month, day := now.Date()
	at := time.Date(year, month, day, hour, minute, 0, 0, now.Location())
	return stripped, &at
}
