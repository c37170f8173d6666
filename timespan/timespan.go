// Package timespan implements C1: time-of-day parsing and timespan
// overlap/containment math for the editor. Hours of 24 or more are legal
// and represent the following service day, matching GTFS's own
// convention for trips that run past midnight.
package timespan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
)

// Time is a time-of-day expressed as seconds since midnight of a base
// day. Values >= 24*3600 represent later days; Day exposes the day
// offset separately when needed.
type Time struct {
	Seconds int
}

// Parse parses "HH:MM" or "HH:MM:SS". HH may exceed 23.
func Parse(s string) (Time, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Time{}, fmt.Errorf("%w: %q must be HH:MM or HH:MM:SS", errs.ErrTimeFormat, s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return Time{}, fmt.Errorf("%w: bad hour in %q", errs.ErrTimeFormat, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Time{}, fmt.Errorf("%w: bad minute in %q", errs.ErrTimeFormat, s)
	}
	sec := 0
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return Time{}, fmt.Errorf("%w: bad second in %q", errs.ErrTimeFormat, s)
		}
	}

	return Time{Seconds: h*3600 + m*60 + sec}, nil
}

// MustParse panics on a malformed string. Intended for literal constants
// in tests and config defaults, never for untrusted input.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Day is the number of whole days represented by hours >= 24.
func (t Time) Day() int {
	return t.Seconds / 86400
}

// String renders back to HH:MM:SS, preserving hours >= 24.
func (t Time) String() string {
	h := t.Seconds / 3600
	m := (t.Seconds % 3600) / 60
	s := t.Seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func (a Time) Before(b Time) bool { return a.Seconds < b.Seconds }
func (a Time) After(b Time) bool  { return a.Seconds > b.Seconds }
func (a Time) Equal(b Time) bool  { return a.Seconds == b.Seconds }

// Timespan is an ordered [Start, End) window. Start must be <= End once
// normalized by Parse; a timespan straddling midnight is expressed by
// giving End an hour >= 24 rather than by End < Start.
type Timespan struct {
	Start Time
	End   Time
}

// Default is the scope that represents "all day", used as the implicit
// scope of a property's scalar default value.
var Default = Timespan{Start: Time{Seconds: 0}, End: Time{Seconds: 24 * 3600}}

// IsDefault reports whether ts is exactly the default all-day scope.
func (ts Timespan) IsDefault() bool {
	return ts == Default
}

// ParseList parses a two-element ["HH:MM", "HH:MM"] list into a Timespan.
// It is an error for the list to have a length other than 2, or for End
// to be strictly before Start once both are parsed (crossing midnight is
// expressed with End's hour >= 24, per Parse).
func ParseList(list []string) (Timespan, error) {
	if len(list) != 2 {
		return Timespan{}, fmt.Errorf("%w: timespan must have exactly 2 elements, got %d", errs.ErrTimespanFormat, len(list))
	}
	start, err := Parse(list[0])
	if err != nil {
		return Timespan{}, err
	}
	end, err := Parse(list[1])
	if err != nil {
		return Timespan{}, err
	}
	if end.Seconds < start.Seconds {
		return Timespan{}, fmt.Errorf("%w: end %s is before start %s", errs.ErrTimespanFormat, end, start)
	}
	return Timespan{Start: start, End: end}, nil
}

// DurationSeconds returns the wrap-around-aware duration of ts in
// seconds. Because Parse/ParseList already normalize a midnight-crossing
// timespan by letting End's hour exceed 24, this is simply End - Start;
// the wrap-around branch below covers callers that build a Timespan by
// hand (e.g. from raw seconds-since-midnight without
// normalizing End first).
func (ts Timespan) DurationSeconds() int {
	if ts.End.Seconds < ts.Start.Seconds {
		return (24*3600 - ts.Start.Seconds) + ts.End.Seconds
	}
	return ts.End.Seconds - ts.Start.Seconds
}

// Contains reports whether ts inclusively contains other.
func (ts Timespan) Contains(other Timespan) bool {
	return ts.Start.Seconds <= other.Start.Seconds && ts.End.Seconds >= other.End.Seconds
}

// Overlaps reports whether ts and other share at least one instant.
func (ts Timespan) Overlaps(other Timespan) bool {
	return ts.Start.Seconds < other.End.Seconds && other.Start.Seconds < ts.End.Seconds
}

// OverlapMinutes returns the integer minutes of intersection between ts
// and other, 0 if disjoint, clamped to the length of the shorter window.
func (ts Timespan) OverlapMinutes(other Timespan) int {
	start := ts.Start.Seconds
	if other.Start.Seconds > start {
		start = other.Start.Seconds
	}
	end := ts.End.Seconds
	if other.End.Seconds < end {
		end = other.End.Seconds
	}
	if end <= start {
		return 0
	}
	return (end - start) / 60
}

// FilterOverlapping returns the subset of spans that overlap query.
func FilterOverlapping(spans []Timespan, query Timespan) []Timespan {
	out := make([]Timespan, 0, len(spans))
	for _, s := range spans {
		if s.Overlaps(query) {
			out = append(out, s)
		}
	}
	return out
}

// AnyOverlap reports whether any two distinct spans in the list overlap,
// and if so returns the first overlapping pair's indices. O(n^2), which
// is acceptable since scoped-value lists and frequency windows are
// small.
func AnyOverlap(spans []Timespan) (i, j int, found bool) {
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].Overlaps(spans[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
