package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// ErrBadRecurrenceRule marks a rule string that could not be parsed. The
// expander degrades to the anchor occurrence and reports this error; it is
// recoverable and must not abort aggregation.
var ErrBadRecurrenceRule = errors.New("unparseable recurrence rule")

const defaultMaxOccurrences = 1000

// Instance is one expanded start/end of a recurring event. End is the zero
// value when the event has no end time.
type Instance struct {
	Start time.Time
	End   time.Time
}

// Expander expands an event's anchor, rule, and exceptions into concrete
// instances within a range.
//
// Rule math runs in business-local calendar space: candidate dates coming out
// of the rule are reduced to year/month/day, corrected where absolute-time
// arithmetic drifted, and recombined with the anchor's business-local time of
// day only at the end. This keeps the displayed day and time stable across
// DST transitions.
type Expander struct {
	resolver       *Resolver
	maxOccurrences int
}

func NewExpander(resolver *Resolver) *Expander {
	return &Expander{resolver: resolver, maxOccurrences: defaultMaxOccurrences}
}

// Expand returns the event's occurrence instances within [rangeStart,
// rangeEnd], ordered ascending. Every instance keeps the anchor's
// business-local time of day and the anchor's duration. The anchor's own
// occurrence is included whenever it falls in range, even if the rule would
// not produce it. No instance is produced before the anchor's calendar date.
//
// On a parse failure the anchor-only result is returned together with an
// error wrapping ErrBadRecurrenceRule.
func (e *Expander) Expand(ev Event, rangeStart, rangeEnd time.Time) ([]Instance, error) {
	anchor := e.resolver.ToWallClock(ev.StartTime)
	anchorDate := anchor.Date()

	duration := time.Duration(0)
	if !ev.EndTime.IsZero() {
		duration = ev.EndTime.Sub(ev.StartTime)
	}

	excluded := make(map[string]struct{}, len(ev.ExceptionDates))
	for _, d := range ev.ExceptionDates {
		excluded[d] = struct{}{}
	}

	if ev.RecurrenceRule == "" {
		return e.anchorOnly(anchorDate, anchor, duration, excluded, rangeStart, rangeEnd), nil
	}

	rule, err := rrule.StrToRRule(ev.RecurrenceRule)
	if err != nil {
		anchorOnly := e.anchorOnly(anchorDate, anchor, duration, excluded, rangeStart, rangeEnd)
		return anchorOnly, fmt.Errorf("%w %q: %v", ErrBadRecurrenceRule, ev.RecurrenceRule, err)
	}

	// A weekly rule whose anchor does not sit on an allowed weekday would
	// generate from an invalid weekday; advance the anchor forward to the
	// nearest allowed one first.
	startDate := anchorDate
	if allowed := ruleWeekdays(rule); len(allowed) > 0 {
		for i := 0; i < 7; i++ {
			if _, ok := allowed[startDate.Weekday()]; ok {
				break
			}
			startDate = startDate.Next()
		}
	}

	rule.DTStart(e.resolver.AtTime(startDate, anchor.Hour, anchor.Minute, anchor.Second))

	// Query one day wide on both sides so a date whose instant sits just
	// outside the range in rule space is still considered; the final filter
	// below is authoritative.
	loc := e.resolver.Location()
	candidates := rule.Between(
		rangeStart.In(loc).AddDate(0, 0, -1),
		rangeEnd.In(loc).AddDate(0, 0, 1),
		true,
	)
	if len(candidates) > e.maxOccurrences {
		candidates = candidates[:e.maxOccurrences]
	}

	monthDay := ruleMonthDay(rule)

	seen := make(map[Date]struct{}, len(candidates)+1)
	instances := make([]Instance, 0, len(candidates)+1)

	add := func(d Date) {
		if d.Before(startDate) {
			return
		}
		if _, dup := seen[d]; dup {
			return
		}
		if _, skip := excluded[d.String()]; skip {
			return
		}
		start := e.resolver.AtTime(d, anchor.Hour, anchor.Minute, anchor.Second)
		if start.Before(rangeStart) || start.After(rangeEnd) {
			return
		}
		seen[d] = struct{}{}
		inst := Instance{Start: start}
		if duration > 0 {
			inst.End = start.Add(duration)
		}
		instances = append(instances, inst)
	}

	for _, c := range candidates {
		d := e.resolver.DateOf(c)
		if monthDay > 0 && d.Day != monthDay {
			corrected, ok := correctMonthDay(d, monthDay)
			if !ok {
				continue
			}
			d = corrected
		}
		add(d)
	}

	// The anchor itself always shows when in range, whether or not the rule
	// math reproduces it.
	add(startDate)

	sort.Slice(instances, func(i, j int) bool { return instances[i].Start.Before(instances[j].Start) })
	return instances, nil
}

func (e *Expander) anchorOnly(anchorDate Date, anchor WallClock, duration time.Duration, excluded map[string]struct{}, rangeStart, rangeEnd time.Time) []Instance {
	if _, skip := excluded[anchorDate.String()]; skip {
		return nil
	}
	start := e.resolver.AtTime(anchorDate, anchor.Hour, anchor.Minute, anchor.Second)
	if start.Before(rangeStart) || start.After(rangeEnd) {
		return nil
	}
	inst := Instance{Start: start}
	if duration > 0 {
		inst.End = start.Add(duration)
	}
	return []Instance{inst}
}

// ruleWeekdays returns the BYDAY constraint as business weekdays, or nil when
// the rule has none.
func ruleWeekdays(rule *rrule.RRule) map[time.Weekday]struct{} {
	byday := rule.OrigOptions.Byweekday
	if len(byday) == 0 {
		return nil
	}
	out := make(map[time.Weekday]struct{}, len(byday))
	for _, wd := range byday {
		// rrule counts Monday as 0, time.Weekday counts Sunday as 0.
		out[time.Weekday((wd.Day()+1)%7)] = struct{}{}
	}
	return out
}

// ruleMonthDay returns the single positive BYMONTHDAY of the rule, or 0.
// correctMonthDay pulls a drifted candidate back to the business-local day
// of month the rule names. Zone conversion drifts a candidate by at most a
// day, so a drifted day more than one off the rule's day means the boundary
// of a month was crossed and the intended day lives in the neighboring
// month. Returns false for months too short to contain the day.
func correctMonthDay(d Date, monthDay int) (Date, bool) {
	corrected := Date{d.Year, d.Month, monthDay}
	if monthDay-d.Day > 1 {
		prev := Date{d.Year, d.Month, 1}.AddDays(-1)
		corrected = Date{prev.Year, prev.Month, monthDay}
	} else if d.Day-monthDay > 1 {
		next := Date{d.Year, d.Month, d.DaysInMonth()}.AddDays(1)
		corrected = Date{next.Year, next.Month, monthDay}
	}
	if monthDay > corrected.DaysInMonth() {
		return Date{}, false
	}
	return corrected, true
}

func ruleMonthDay(rule *rrule.RRule) int {
	days := rule.OrigOptions.Bymonthday
	if len(days) == 1 && days[0] > 0 {
		return days[0]
	}
	return 0
}
