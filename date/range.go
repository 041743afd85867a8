package date

import "fmt"

// Range is an interval of days, both bounds included.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange returns the period that contains d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains reports whether day is in the range.
func (r Range) Contains(day Date) bool { return !day.Before(r.From) && !day.After(r.To) }

// String returns "from..to".
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
