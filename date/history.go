package date

import (
	"iter"
	"slices"
)

// point is a value observed on a day.
type point[T any] struct {
	day   Date
	value T
}

// History is a series of values indexed by day, kept sorted and with at most one
// value per day.
//
// The zero value is an empty history ready to use.
type History[T any] struct {
	points []point[T]
}

// search returns the position of day, or where it would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.points, day, func(p point[T], d Date) int { return p.day.Compare(d) })
}

// Append sets the value on day, replacing the previous one if any.
func (h *History[T]) Append(day Date, value T) *History[T] {
	i, found := h.search(day)
	if found {
		h.points[i].value = value
		return h
	}
	h.points = slices.Insert(h.points, i, point[T]{day, value})
	return h
}

// Len returns the number of days with a value.
func (h *History[T]) Len() int { return len(h.points) }

// Values iterates over days and values in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for _, p := range h.points {
			if !yield(p.day, p.value) {
				return
			}
		}
	}
}

// Get returns the value on day.
func (h *History[T]) Get(day Date) (value T, ok bool) {
	if i, found := h.search(day); found {
		return h.points[i].value, true
	}
	return value, false
}

// ValueAsOf returns the value on day, or else the last one before it.
func (h *History[T]) ValueAsOf(day Date) (value T, ok bool) {
	i, found := h.search(day)
	if found {
		return h.points[i].value, true
	}
	if i == 0 {
		return value, false
	}
	return h.points[i-1].value, true
}
