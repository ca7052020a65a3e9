package recurrence

import (
	"iter"
	"time"
)

// OverflowPolicy controls what happens when a monthly or yearly rule points
// at a day the target month does not have (the 31st in February).
type OverflowPolicy int

const (
	// ClampToMonthEnd moves the occurrence to the last day of the month.
	ClampToMonthEnd OverflowPolicy = iota
	// SkipShortMonths drops the occurrence for months without that day.
	SkipShortMonths
)

// Limit bounds one expansion from the caller's side. Zero values mean "no
// bound from that side"; the rule's own EndDate and Occurrences still apply,
// and the tighter bound always wins.
type Limit struct {
	MaxCount int
	MaxDate  time.Time // inclusive
}

// defaultMaxCount guards expansions where neither the caller nor the rule
// supplies any bound.
const defaultMaxCount = 1000

// maxScanPeriods bounds the month/year scan so a skip policy pointed at a
// day that never exists (the 30th with a February-only cadence) terminates.
const maxScanPeriods = 10000

// Expander generates concrete occurrence dates from a rule. It is stateless:
// the same rule, anchor, after and limit always produce the same sequence.
// The zero value clamps short months.
type Expander struct {
	Overflow OverflowPolicy
}

// Occurrences returns the dates the rule fires on, strictly after `after`,
// in ascending order, at most one per calendar day. The anchor is the
// template's first due date (or creation date) and fixes the reference
// weekday, day-of-month and month for rules that do not pin one explicitly.
// All yielded values are midnight in the anchor's location.
//
// The Occurrences cap on the rule bounds a single expansion, same as
// Limit.MaxCount; it is not cumulative across calls.
func (e Expander) Occurrences(r Rule, anchor, after time.Time, limit Limit) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if r.Validate() != nil {
			return
		}

		maxCount := limit.MaxCount
		if r.Occurrences > 0 && (maxCount == 0 || r.Occurrences < maxCount) {
			maxCount = r.Occurrences
		}
		maxDate := limit.MaxDate
		if r.EndDate != nil {
			end := dateOnly(*r.EndDate)
			if maxDate.IsZero() || end.Before(maxDate) {
				maxDate = end
			}
		}
		if maxCount == 0 && maxDate.IsZero() {
			maxCount = defaultMaxCount
		}

		emitted := 0
		var last time.Time
		// emit yields one candidate; returning false stops the expansion.
		emit := func(d time.Time) bool {
			if !maxDate.IsZero() && d.After(maxDate) {
				return false
			}
			if !d.After(after) {
				return true
			}
			if !last.IsZero() && !d.After(last) {
				return true
			}
			if !yield(d) {
				return false
			}
			last = d
			emitted++
			return maxCount == 0 || emitted < maxCount
		}

		switch r.Type {
		case Daily:
			e.daily(r, after, emit)
		case Weekly:
			e.weekly(r, anchor, emit)
		case Monthly:
			e.monthly(r, anchor, emit)
		case Yearly:
			e.yearly(r, anchor, emit)
		}
	}
}

// FirstOnOrAfter returns the first occurrence falling on `date` or later, or
// false when the rule is already exhausted by its end date.
func (e Expander) FirstOnOrAfter(r Rule, anchor, date time.Time) (time.Time, bool) {
	after := dateOnly(date).AddDate(0, 0, -1)
	for d := range e.Occurrences(r, anchor, after, Limit{MaxCount: 1}) {
		return d, true
	}
	return time.Time{}, false
}

func (e Expander) daily(r Rule, after time.Time, emit func(time.Time) bool) {
	d := dateOnly(after)
	for {
		d = d.AddDate(0, 0, r.Interval)
		if !emit(d) {
			return
		}
	}
}

func (e Expander) weekly(r Rule, anchor time.Time, emit func(time.Time) bool) {
	days := normalizeWeekdays(r.DaysOfWeek)
	if len(days) == 0 {
		// Same weekday as the anchor, every Interval weeks.
		d := dateOnly(anchor)
		for {
			if !emit(d) {
				return
			}
			d = d.AddDate(0, 0, 7*r.Interval)
		}
	}
	// Interval applies to whole weeks: a week is included when its distance
	// from the anchor's week is a multiple of Interval, and every listed
	// weekday inside an included week fires.
	week := startOfWeek(dateOnly(anchor))
	for {
		for _, wd := range days {
			if !emit(week.AddDate(0, 0, wd)) {
				return
			}
		}
		week = week.AddDate(0, 0, 7*r.Interval)
	}
}

func (e Expander) monthly(r Rule, anchor time.Time, emit func(time.Time) bool) {
	a := dateOnly(anchor)
	day := r.DayOfMonth
	if day == 0 {
		day = a.Day()
	}
	year, month, _ := a.Date()
	for k := 0; k < maxScanPeriods; k++ {
		d, ok := e.resolveDay(year, month+time.Month(k*r.Interval), day, a.Location())
		if ok && !emit(d) {
			return
		}
	}
}

func (e Expander) yearly(r Rule, anchor time.Time, emit func(time.Time) bool) {
	a := dateOnly(anchor)
	month := a.Month()
	if r.MonthOfYear != 0 {
		month = time.Month(r.MonthOfYear)
	}
	day := a.Day()
	for k := 0; k < maxScanPeriods; k++ {
		d, ok := e.resolveDay(a.Year()+k*r.Interval, month, day, a.Location())
		if ok && !emit(d) {
			return
		}
	}
}

// resolveDay places day-of-month inside the (normalized) year/month,
// applying the overflow policy when the month is too short.
func (e Expander) resolveDay(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	if last := daysInMonth(first.Month(), first.Year()); day > last {
		if e.Overflow == SkipShortMonths {
			return time.Time{}, false
		}
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc), true
}

// daysInMonth moves to the next month and rolls back a day.
func daysInMonth(month time.Month, year int) int {
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// dateOnly truncates a timestamp to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Sunday opening the week of d, matching the
// 0=Sunday weekday numbering.
func startOfWeek(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}
