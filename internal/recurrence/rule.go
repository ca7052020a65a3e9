package recurrence

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Type names the unit a rule repeats over.
type Type string

const (
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
	Yearly  Type = "yearly"
)

// Rule describes a repetition pattern: every Interval units of Type,
// optionally pinned to weekdays (weekly), a day of month (monthly) or a
// month (yearly), optionally bounded by EndDate or an occurrence cap.
//
// The JSON encoding doubles as the transport string stored on a task and as
// the shape the model-backed parser is expected to emit, so both parse paths
// share one wire format. Absent optional fields stay absent: a zero
// DayOfMonth or MonthOfYear means "not set", never "day zero".
type Rule struct {
	Type        Type       `json:"type"`
	Interval    int        `json:"interval"`
	DaysOfWeek  []int      `json:"days_of_week,omitempty"`  // 0=Sunday .. 6=Saturday, weekly only
	DayOfMonth  int        `json:"day_of_month,omitempty"`  // 1..31, monthly only
	MonthOfYear int        `json:"month_of_year,omitempty"` // 1..12, yearly only
	EndDate     *time.Time `json:"end_date,omitempty"`      // no occurrences after this date
	Occurrences int        `json:"occurrences,omitempty"`   // cap per expansion, 0 = unbounded
}

var (
	ErrInvalidType        = errors.New("recurrence: unknown rule type")
	ErrInvalidInterval    = errors.New("recurrence: interval must be at least 1")
	ErrInvalidWeekday     = errors.New("recurrence: weekday must be in 0..6")
	ErrInvalidDayOfMonth  = errors.New("recurrence: day of month must be in 1..31")
	ErrInvalidMonth       = errors.New("recurrence: month must be in 1..12")
	ErrInvalidOccurrences = errors.New("recurrence: occurrence cap must be positive")
	ErrInconsistentFields = errors.New("recurrence: field does not belong to rule type")
)

// Validate checks the rule invariants. Fields that belong to a different rule
// type are rejected rather than silently ignored, so a weekly rule carrying a
// day-of-month fails loudly instead of meaning something unintended.
func (r Rule) Validate() error {
	switch r.Type {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, r.Type)
	}
	if r.Interval < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, r.Interval)
	}
	if len(r.DaysOfWeek) > 0 && r.Type != Weekly {
		return fmt.Errorf("%w: days_of_week on %s rule", ErrInconsistentFields, r.Type)
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: got %d", ErrInvalidWeekday, d)
		}
	}
	if r.DayOfMonth != 0 {
		if r.Type != Monthly {
			return fmt.Errorf("%w: day_of_month on %s rule", ErrInconsistentFields, r.Type)
		}
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return fmt.Errorf("%w: got %d", ErrInvalidDayOfMonth, r.DayOfMonth)
		}
	}
	if r.MonthOfYear != 0 {
		if r.Type != Yearly {
			return fmt.Errorf("%w: month_of_year on %s rule", ErrInconsistentFields, r.Type)
		}
		if r.MonthOfYear < 1 || r.MonthOfYear > 12 {
			return fmt.Errorf("%w: got %d", ErrInvalidMonth, r.MonthOfYear)
		}
	}
	if r.Occurrences < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidOccurrences, r.Occurrences)
	}
	return nil
}

// Marshal encodes the rule as compact JSON.
func Marshal(r Rule) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode rule: %w", err)
	}
	return string(raw), nil
}

// Unmarshal decodes a rule from its JSON encoding and validates it. A missing
// interval defaults to 1; unknown fields are ignored so older readers keep
// working when the encoding grows.
func Unmarshal(s string) (Rule, error) {
	var r Rule
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Rule{}, fmt.Errorf("decode rule: %w", err)
	}
	if r.Interval == 0 {
		r.Interval = 1
	}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

var weekdayNames = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// Describe renders the rule in everyday Chinese, e.g. "每周一" or
// "每月15号". Purely presentational: transports show it to the user so they
// never re-implement rule semantics.
func (r Rule) Describe() string {
	var b strings.Builder
	switch r.Type {
	case Daily:
		if r.Interval == 1 {
			b.WriteString("每天")
		} else {
			fmt.Fprintf(&b, "每%d天", r.Interval)
		}
	case Weekly:
		b.WriteString(describeWeekly(r))
	case Monthly:
		if r.Interval == 1 {
			b.WriteString("每月")
		} else {
			fmt.Fprintf(&b, "每%d个月", r.Interval)
		}
		if r.DayOfMonth > 0 {
			fmt.Fprintf(&b, "%d号", r.DayOfMonth)
		}
	case Yearly:
		if r.Interval == 1 {
			b.WriteString("每年")
		} else {
			fmt.Fprintf(&b, "每%d年", r.Interval)
		}
		if r.MonthOfYear > 0 {
			fmt.Fprintf(&b, "%d月", r.MonthOfYear)
		}
	}
	if r.EndDate != nil {
		fmt.Fprintf(&b, "，截止%s", r.EndDate.Format("2006-01-02"))
	}
	if r.Occurrences > 0 {
		fmt.Fprintf(&b, "，共%d次", r.Occurrences)
	}
	return b.String()
}

func describeWeekly(r Rule) string {
	days := normalizeWeekdays(r.DaysOfWeek)
	if isWorkdays(days) {
		if r.Interval == 1 {
			return "每个工作日"
		}
		return fmt.Sprintf("每%d周的工作日", r.Interval)
	}
	prefix := "每周"
	if r.Interval > 1 {
		prefix = fmt.Sprintf("每%d周的", r.Interval)
	}
	if len(days) == 0 {
		if r.Interval > 1 {
			return fmt.Sprintf("每%d周", r.Interval)
		}
		return prefix
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = weekdayNames[d]
	}
	if r.Interval == 1 {
		// "每周一、周三" reads better than "每周周一".
		return "每" + strings.Join(names, "、")
	}
	return prefix + strings.Join(names, "、")
}

func isWorkdays(days []int) bool {
	if len(days) != 5 {
		return false
	}
	for i, d := range days {
		if d != i+1 {
			return false
		}
	}
	return true
}

// normalizeWeekdays returns the weekday set sorted and deduplicated.
func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return nil
	}
	out := make([]int, 0, len(days))
	seen := [7]bool{}
	for _, d := range days {
		if d >= 0 && d <= 6 && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
