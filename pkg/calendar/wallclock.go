package calendar

import (
	"fmt"
	"time"
)

// Date is a business-local calendar date. All recurrence arithmetic happens on
// Dates; conversion to absolute instants is done by the Resolver as the final
// step.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t.Year(), t.Month(), t.Day()}, nil
}

// AddDays returns the date n days later, normalized across month and year
// boundaries. The weekday of a calendar date does not depend on a timezone,
// so UTC is used for the normalization only.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return Date{t.Year(), t.Month(), t.Day()}
}

func (d Date) Next() Date {
	return d.AddDays(1)
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) After(other Date) bool {
	return other.Before(d)
}

// DaysInMonth returns the number of days in the date's month.
func (d Date) DaysInMonth() int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WallClock is a business-local wall-clock reading.
type WallClock struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

func (wc WallClock) Date() Date {
	return Date{wc.Year, wc.Month, wc.Day}
}

// Resolver converts between absolute instants and business-local wall-clock
// fields. It is bound to the single fixed business timezone and never consults
// the process-local zone.
type Resolver struct {
	loc *time.Location
}

func NewResolver(loc *time.Location) *Resolver {
	return &Resolver{loc: loc}
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

func (r *Resolver) ToWallClock(t time.Time) WallClock {
	local := t.In(r.loc)
	return WallClock{
		Year:   local.Year(),
		Month:  local.Month(),
		Day:    local.Day(),
		Hour:   local.Hour(),
		Minute: local.Minute(),
		Second: local.Second(),
	}
}

// FromWallClock maps wall-clock fields to an instant, round-trip consistent
// with ToWallClock. A reading that occurs twice (fall-back overlap) resolves
// to the earlier instant. A reading that never occurs (spring-forward gap)
// resolves to the first valid instant after the gap.
func (r *Resolver) FromWallClock(wc WallClock) time.Time {
	t := time.Date(wc.Year, wc.Month, wc.Day, wc.Hour, wc.Minute, wc.Second, 0, r.loc)

	if r.ToWallClock(t) == wc {
		// The reading exists. If it is ambiguous, an earlier instant shows
		// the same wall clock; offset deltas are at most two hours.
		for _, back := range []time.Duration{-2 * time.Hour, -time.Hour, -30 * time.Minute} {
			if alt := t.Add(back); r.ToWallClock(alt) == wc {
				return alt
			}
		}
		return t
	}

	return r.afterGap(t)
}

// afterGap locates the first instant after a spring-forward gap. time.Date
// has already normalized the nonexistent reading onto the new offset, so the
// transition instant lies within the preceding 24 hours.
func (r *Resolver) afterGap(t time.Time) time.Time {
	_, targetOffset := t.Zone()
	lo := t.Add(-24 * time.Hour)
	hi := t
	for hi.Sub(lo) > time.Millisecond {
		mid := lo.Add(hi.Sub(lo) / 2)
		if _, offset := mid.Zone(); offset == targetOffset {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi.Round(time.Second)
}

// DateOf returns the business-local calendar date of an instant.
func (r *Resolver) DateOf(t time.Time) Date {
	return r.ToWallClock(t).Date()
}

// AtTime returns the instant of a business-local time of day on a date.
func (r *Resolver) AtTime(d Date, hour, minute, second int) time.Time {
	return r.FromWallClock(WallClock{d.Year, d.Month, d.Day, hour, minute, second})
}

// StartOfDay returns the instant of business-local midnight on a date.
func (r *Resolver) StartOfDay(d Date) time.Time {
	return r.AtTime(d, 0, 0, 0)
}

// Weekday returns the business-local weekday of an instant.
func (r *Resolver) Weekday(t time.Time) time.Weekday {
	return r.DateOf(t).Weekday()
}
