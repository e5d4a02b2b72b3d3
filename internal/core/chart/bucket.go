package chart

import (
	"errors"
	"time"
)

// ErrTooManyBuckets is returned by Grid when the range holds more buckets than allowed
var ErrTooManyBuckets = errors.New("chart: too many buckets")

// Truncate returns the start of the unit containing t, in UTC
// weeks start on Monday, quarters start in January, April, July and October
func Truncate(t time.Time, u GroupingUnit) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch u {
	case UnitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case UnitWeek:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		back := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -back)
	case UnitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case UnitQuarter:
		q := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, q, 1, 0, 0, 0, 0, time.UTC)
	case UnitYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Next returns the start of the unit after the one starting at t
func Next(t time.Time, u GroupingUnit) time.Time {
	switch u {
	case UnitDay:
		return t.AddDate(0, 0, 1)
	case UnitWeek:
		return t.AddDate(0, 0, 7)
	case UnitMonth:
		return t.AddDate(0, 1, 0)
	case UnitQuarter:
		return t.AddDate(0, 3, 0)
	case UnitYear:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// Grid lists every bucket start from the bucket of start through the bucket of end
// max <= 0 disables the size check
func Grid(start, end time.Time, u GroupingUnit, max int) ([]time.Time, error) {
	if u == UnitCommit {
		return nil, errors.New("chart: commit grouping has no calendar grid")
	}
	first, last := Truncate(start, u), Truncate(end, u)
	var out []time.Time
	for b := first; !b.After(last); b = Next(b, u) {
		if max > 0 && len(out) == max {
			return nil, ErrTooManyBuckets
		}
		out = append(out, b)
	}
	return out, nil
}
