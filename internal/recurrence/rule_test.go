package recurrence

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		rule    Rule
		wantErr error
	}{
		{"daily", Rule{Type: Daily, Interval: 1}, nil},
		{"weekly with days", Rule{Type: Weekly, Interval: 2, DaysOfWeek: []int{1, 3}}, nil},
		{"monthly with day", Rule{Type: Monthly, Interval: 1, DayOfMonth: 15}, nil},
		{"yearly with month", Rule{Type: Yearly, Interval: 1, MonthOfYear: 6}, nil},
		{"bounded", Rule{Type: Daily, Interval: 1, EndDate: &end, Occurrences: 10}, nil},
		{"unusual but valid interval", Rule{Type: Weekly, Interval: 52}, nil},
		{"unknown type", Rule{Type: "hourly", Interval: 1}, ErrInvalidType},
		{"zero interval", Rule{Type: Daily}, ErrInvalidInterval},
		{"negative interval", Rule{Type: Daily, Interval: -1}, ErrInvalidInterval},
		{"weekday out of range", Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{7}}, ErrInvalidWeekday},
		{"day of month out of range", Rule{Type: Monthly, Interval: 1, DayOfMonth: 32}, ErrInvalidDayOfMonth},
		{"month out of range", Rule{Type: Yearly, Interval: 1, MonthOfYear: 13}, ErrInvalidMonth},
		{"day of month on weekly", Rule{Type: Weekly, Interval: 1, DayOfMonth: 5}, ErrInconsistentFields},
		{"weekdays on monthly", Rule{Type: Monthly, Interval: 1, DaysOfWeek: []int{1}}, ErrInconsistentFields},
		{"month on daily", Rule{Type: Daily, Interval: 1, MonthOfYear: 3}, ErrInconsistentFields},
		{"negative occurrences", Rule{Type: Daily, Interval: 1, Occurrences: -2}, ErrInvalidOccurrences},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	rules := []Rule{
		{Type: Daily, Interval: 1},
		{Type: Daily, Interval: 3, Occurrences: 7},
		{Type: Weekly, Interval: 1, DaysOfWeek: []int{1, 2, 3, 4, 5}},
		{Type: Weekly, Interval: 2, DaysOfWeek: []int{0, 6}},
		{Type: Monthly, Interval: 1, DayOfMonth: 31},
		{Type: Yearly, Interval: 1, MonthOfYear: 2, EndDate: &end},
	}

	for _, rule := range rules {
		encoded, err := Marshal(rule)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", rule, err)
		}
		decoded, err := Unmarshal(encoded)
		if err != nil {
			t.Fatalf("Unmarshal(%q): %v", encoded, err)
		}
		if !reflect.DeepEqual(decoded, rule) {
			t.Errorf("round trip changed rule: %+v -> %+v", rule, decoded)
		}
	}
}

func TestMarshalRejectsInvalid(t *testing.T) {
	if _, err := Marshal(Rule{Type: Daily}); err == nil {
		t.Fatal("Marshal accepted a zero-interval rule")
	}
}

func TestUnmarshalDefaultsAndAbsence(t *testing.T) {
	rule, err := Unmarshal(`{"type":"weekly"}`)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rule.Interval != 1 {
		t.Errorf("interval = %d, want default 1", rule.Interval)
	}
	if rule.DayOfMonth != 0 || rule.MonthOfYear != 0 || rule.EndDate != nil || rule.Occurrences != 0 {
		t.Errorf("absent fields populated: %+v", rule)
	}
	if len(rule.DaysOfWeek) != 0 {
		t.Errorf("days_of_week = %v, want absent", rule.DaysOfWeek)
	}

	if _, err := Unmarshal(`{"type":"weekly","day_of_month":5}`); err == nil {
		t.Error("Unmarshal accepted inconsistent fields")
	}
	if _, err := Unmarshal(`not json`); err == nil {
		t.Error("Unmarshal accepted garbage")
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	rule, err := Unmarshal(`{"type":"daily","interval":2,"confidence":0.9}`)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rule.Type != Daily || rule.Interval != 2 {
		t.Errorf("rule = %+v", rule)
	}
}

func TestDescribe(t *testing.T) {
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		rule Rule
		want string
	}{
		{Rule{Type: Daily, Interval: 1}, "每天"},
		{Rule{Type: Daily, Interval: 3}, "每3天"},
		{Rule{Type: Weekly, Interval: 1}, "每周"},
		{Rule{Type: Weekly, Interval: 2}, "每2周"},
		{Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{1}}, "每周一"},
		{Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{1, 3}}, "每周一、周三"},
		{Rule{Type: Weekly, Interval: 2, DaysOfWeek: []int{1}}, "每2周的周一"},
		{Rule{Type: Weekly, Interval: 1, DaysOfWeek: []int{1, 2, 3, 4, 5}}, "每个工作日"},
		{Rule{Type: Monthly, Interval: 1, DayOfMonth: 15}, "每月15号"},
		{Rule{Type: Monthly, Interval: 1}, "每月"},
		{Rule{Type: Monthly, Interval: 3, DayOfMonth: 1}, "每3个月1号"},
		{Rule{Type: Yearly, Interval: 1}, "每年"},
		{Rule{Type: Yearly, Interval: 1, MonthOfYear: 6}, "每年6月"},
		{Rule{Type: Daily, Interval: 1, Occurrences: 10}, "每天，共10次"},
		{Rule{Type: Daily, Interval: 1, EndDate: &end}, "每天，截止2025-12-31"},
	}

	for _, tt := range tests {
		if got := tt.rule.Describe(); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.rule, got, tt.want)
		}
	}
}
