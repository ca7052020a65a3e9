package recurrence

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func collect(t *testing.T, e Expander, r Rule, anchor, after time.Time, limit Limit) []time.Time {
	t.Helper()
	var out []time.Time
	for d := range e.Occurrences(r, anchor, after, limit) {
		out = append(out, d)
		if len(out) > 100 {
			t.Fatal("runaway expansion")
		}
	}
	return out
}

func assertDates(t *testing.T, got []time.Time, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// 2025-01-06 is a Monday.
var (
	monday = date(2025, 1, 6)
	friday = date(2025, 1, 10)
)

func TestDailyOccurrences(t *testing.T) {
	var e Expander
	rule := Rule{Type: Daily, Interval: 2}
	got := collect(t, e, rule, monday, monday, Limit{MaxCount: 3})
	assertDates(t, got, date(2025, 1, 8), date(2025, 1, 10), date(2025, 1, 12))
}

func TestWeeklyAnchorWeekday(t *testing.T) {
	var e Expander
	rule := Rule{Type: Weekly, Interval: 1}
	got := collect(t, e, rule, monday, friday, Limit{MaxCount: 3})
	assertDates(t, got, date(2025, 1, 13), date(2025, 1, 20), date(2025, 1, 27))
}

func TestWeeklyAnchorWeekdayWithInterval(t *testing.T) {
	var e Expander
	rule := Rule{Type: Weekly, Interval: 2}
	got := collect(t, e, rule, monday, friday, Limit{MaxCount: 2})
	assertDates(t, got, date(2025, 1, 20), date(2025, 2, 3))
}

func TestWeeklyDaysOfWeek(t *testing.T) {
	var e Expander
	rule := Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{1, 2, 3, 4, 5}}
	got := collect(t, e, rule, monday, friday, Limit{MaxCount: 3})
	assertDates(t, got, date(2025, 1, 13), date(2025, 1, 14), date(2025, 1, 15))
}

func TestWeeklyIntervalAppliesToWholeWeeks(t *testing.T) {
	// Both weekdays fall in the same included week, then the rule skips a
	// full week.
	var e Expander
	rule := Rule{Type: Weekly, Interval: 2, DaysOfWeek: []int{1, 3}}
	got := collect(t, e, rule, monday, monday, Limit{MaxCount: 4})
	assertDates(t, got,
		date(2025, 1, 8),  // Wednesday of the anchor week
		date(2025, 1, 20), // Monday two weeks on
		date(2025, 1, 22),
		date(2025, 2, 3),
	)
}

func TestWeeklyDeduplicatesRepeatedDays(t *testing.T) {
	var e Expander
	rule := Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{3, 3, 3}}
	got := collect(t, e, rule, monday, monday, Limit{MaxCount: 2})
	assertDates(t, got, date(2025, 1, 8), date(2025, 1, 15))
}

func TestMonthlyClampsShortMonths(t *testing.T) {
	var e Expander
	rule := Rule{Type: Monthly, Interval: 1, DayOfMonth: 31}
	got := collect(t, e, rule, date(2025, 1, 15), date(2025, 1, 20), Limit{MaxCount: 4})
	assertDates(t, got,
		date(2025, 1, 31),
		date(2025, 2, 28), // clamped
		date(2025, 3, 31),
		date(2025, 4, 30), // clamped
	)
}

func TestMonthlySkipPolicy(t *testing.T) {
	e := Expander{Overflow: SkipShortMonths}
	rule := Rule{Type: Monthly, Interval: 1, DayOfMonth: 31}
	got := collect(t, e, rule, date(2025, 1, 15), date(2025, 1, 20), Limit{MaxCount: 3})
	assertDates(t, got, date(2025, 1, 31), date(2025, 3, 31), date(2025, 5, 31))
}

func TestMonthlyDefaultsToAnchorDay(t *testing.T) {
	var e Expander
	rule := Rule{Type: Monthly, Interval: 1}
	got := collect(t, e, rule, date(2025, 1, 15), date(2025, 1, 15), Limit{MaxCount: 2})
	assertDates(t, got, date(2025, 2, 15), date(2025, 3, 15))
}

func TestYearlyClampsLeapDay(t *testing.T) {
	var e Expander
	rule := Rule{Type: Yearly, Interval: 1}
	got := collect(t, e, rule, date(2024, 2, 29), date(2024, 3, 1), Limit{MaxCount: 4})
	assertDates(t, got,
		date(2025, 2, 28),
		date(2026, 2, 28),
		date(2027, 2, 28),
		date(2028, 2, 29),
	)
}

func TestYearlyWithMonthOverride(t *testing.T) {
	var e Expander
	rule := Rule{Type: Yearly, Interval: 2, MonthOfYear: 6}
	got := collect(t, e, rule, date(2025, 3, 10), date(2025, 3, 10), Limit{MaxCount: 2})
	assertDates(t, got, date(2025, 6, 10), date(2027, 6, 10))
}

func TestOccurrencesStrictlyIncreasingAndAfter(t *testing.T) {
	rules := []Rule{
		{Type: Daily, Interval: 1},
		{Type: Weekly, Interval: 2, DaysOfWeek: []int{0, 3, 6}},
		{Type: Monthly, Interval: 1, DayOfMonth: 31},
		{Type: Yearly, Interval: 1},
	}
	var e Expander
	after := date(2025, 1, 9)
	for _, rule := range rules {
		prev := after
		for _, d := range collect(t, e, rule, monday, after, Limit{MaxCount: 20}) {
			if !d.After(prev) {
				t.Errorf("%s rule: %v not strictly after %v", rule.Type, d, prev)
			}
			prev = d
		}
	}
}

func TestOccurrencesRestartable(t *testing.T) {
	var e Expander
	rule := Rule{Type: Weekly, Interval: 2, DaysOfWeek: []int{1, 4}}
	first := collect(t, e, rule, monday, friday, Limit{MaxCount: 6})
	second := collect(t, e, rule, monday, friday, Limit{MaxCount: 6})
	assertDates(t, second, first...)
}

func TestRuleOccurrenceCapBoundsOneCall(t *testing.T) {
	var e Expander
	rule := Rule{Type: Daily, Interval: 1, Occurrences: 3}
	got := collect(t, e, rule, monday, monday, Limit{MaxCount: 50})
	if len(got) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(got))
	}
}

func TestEndDateBound(t *testing.T) {
	var e Expander
	end := date(2025, 1, 9)
	rule := Rule{Type: Daily, Interval: 1, EndDate: &end}
	got := collect(t, e, rule, monday, monday, Limit{MaxCount: 50})
	assertDates(t, got, date(2025, 1, 7), date(2025, 1, 8), date(2025, 1, 9))
}

func TestMaxDateInclusive(t *testing.T) {
	var e Expander
	rule := Rule{Type: Daily, Interval: 1}
	got := collect(t, e, rule, monday, monday, Limit{MaxDate: date(2025, 1, 9)})
	assertDates(t, got, date(2025, 1, 7), date(2025, 1, 8), date(2025, 1, 9))
}

func TestUnboundedExpansionGetsDefaultCap(t *testing.T) {
	var e Expander
	rule := Rule{Type: Daily, Interval: 1}
	count := 0
	for range e.Occurrences(rule, monday, monday, Limit{}) {
		count++
		if count > defaultMaxCount {
			t.Fatal("expansion exceeded the default cap")
		}
	}
	if count != defaultMaxCount {
		t.Fatalf("count = %d, want %d", count, defaultMaxCount)
	}
}

func TestInvalidRuleYieldsNothing(t *testing.T) {
	var e Expander
	rule := Rule{Type: Daily} // zero interval
	if got := collect(t, e, rule, monday, monday, Limit{MaxCount: 5}); len(got) != 0 {
		t.Fatalf("invalid rule yielded %v", got)
	}
}

func TestFirstOnOrAfter(t *testing.T) {
	var e Expander
	rule := Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{1}}
	got, ok := e.FirstOnOrAfter(rule, monday, date(2025, 1, 13))
	if !ok || !got.Equal(date(2025, 1, 13)) {
		t.Fatalf("FirstOnOrAfter = %v, %v; want 2025-01-13", got, ok)
	}

	end := date(2025, 1, 10)
	exhausted := Rule{Type: Daily, Interval: 1, EndDate: &end}
	if _, ok := e.FirstOnOrAfter(exhausted, monday, date(2025, 2, 1)); ok {
		t.Fatal("expected exhausted rule to return no occurrence")
	}
}
