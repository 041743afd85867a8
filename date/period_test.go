package date

import (
	"testing"
	"time"
)

func TestNewRange(t *testing.T) {
	wed := New(2025, time.September, 10)
	testCases := []struct {
		in     Date
		period Period
		want   string
	}{
		{wed, Daily, "2025-09-10..2025-09-10"},
		{wed, Weekly, "2025-09-08..2025-09-14"},
		{New(2025, time.September, 14), Weekly, "2025-09-08..2025-09-14"}, // Sunday
		{New(2025, time.September, 8), Weekly, "2025-09-08..2025-09-14"},  // Monday
		{wed, Monthly, "2025-09-01..2025-09-30"},
		{New(2024, time.February, 10), Monthly, "2024-02-01..2024-02-29"},
		{wed, Quarterly, "2025-07-01..2025-09-30"},
		{New(2025, time.January, 1), Quarterly, "2025-01-01..2025-03-31"},
		{New(2025, time.December, 31), Quarterly, "2025-10-01..2025-12-31"},
		{wed, Yearly, "2025-01-01..2025-12-31"},
	}
	for _, tc := range testCases {
		if got := NewRange(tc.in, tc.period).String(); got != tc.want {
			t.Errorf("NewRange(%v, %v) = %v, want %v", tc.in, tc.period, got, tc.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		in   string
		want Period
	}{
		{"day", Daily},
		{"daily", Daily},
		{"Week", Weekly},
		{"monthly", Monthly},
		{"quarter", Quarterly},
		{" YEAR ", Yearly},
	}
	for _, tc := range testCases {
		got, err := ParsePeriod(tc.in)
		if err != nil {
			t.Errorf("ParsePeriod(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePeriod(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParsePeriod("decade"); err == nil {
		t.Errorf("ParsePeriod(decade) expected an error")
	}
	if got := Period(42).String(); got != "Period(42)" {
		t.Errorf("Period(42).String() = %q", got)
	}
}

func TestRange_Contains(t *testing.T) {
	r := Range{From: New(2024, 1, 2), To: New(2024, 1, 4)}
	testCases := []struct {
		in   Date
		want bool
	}{
		{New(2024, 1, 1), false},
		{New(2024, 1, 2), true},
		{New(2024, 1, 3), true},
		{New(2024, 1, 4), true},
		{New(2024, 1, 5), false},
	}
	for _, tc := range testCases {
		if got := r.Contains(tc.in); got != tc.want {
			t.Errorf("%v.Contains(%v) = %v, want %v", r, tc.in, got, tc.want)
		}
	}
}
