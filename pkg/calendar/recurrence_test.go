package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expandRange(resolver *Resolver, from, to Date) (time.Time, time.Time) {
	return resolver.StartOfDay(from), resolver.AtTime(to, 23, 59, 59)
}

func TestExpandWeeklyFridaysAcrossDST(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	// Anchored on a Friday evening in January; the 52-week span crosses the
	// spring-forward transition on March 10 and the fall-back on November 3.
	anchor := resolver.AtTime(Date{2024, time.January, 5}, 19, 0, 0)
	ev := Event{
		ID:             1,
		Title:          "Trivia Night",
		StartTime:      anchor,
		EndTime:        anchor.Add(2 * time.Hour),
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=FR",
		Active:         true,
	}

	from, to := expandRange(resolver, Date{2024, time.January, 1}, Date{2024, time.December, 31})
	instances, err := expander.Expand(ev, from, to)
	require.NoError(t, err)

	assert.Len(t, instances, 52)
	for _, inst := range instances {
		wc := resolver.ToWallClock(inst.Start)
		assert.Equal(t, time.Friday, wc.Date().Weekday(), "occurrence on %s", wc.Date())
		assert.Equal(t, 19, wc.Hour, "occurrence at %s must stay 19:00 business-local", wc.Date())
		assert.Equal(t, 2*time.Hour, inst.End.Sub(inst.Start))
	}
}

func TestExpandPreservesLocalTimeOfDayAcrossSpringForward(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	anchor := resolver.AtTime(Date{2024, time.March, 8}, 19, 0, 0)
	ev := Event{
		StartTime:      anchor,
		RecurrenceRule: "FREQ=DAILY",
		Active:         true,
	}

	from, to := expandRange(resolver, Date{2024, time.March, 8}, Date{2024, time.March, 12})
	instances, err := expander.Expand(ev, from, to)
	require.NoError(t, err)

	require.Len(t, instances, 5)
	for _, inst := range instances {
		assert.Equal(t, 19, resolver.ToWallClock(inst.Start).Hour)
	}
	// Naive UTC math would put March 10 at 18:00 or 20:00 local.
	assert.Equal(t, Date{2024, time.March, 10}, resolver.DateOf(instances[2].Start))
}

func TestExpandWeeklyAdvancesAnchorToAllowedWeekday(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	// June 5, 2024 is a Wednesday; the rule only allows Fridays.
	anchor := resolver.AtTime(Date{2024, time.June, 5}, 21, 0, 0)
	ev := Event{
		StartTime:      anchor,
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=FR",
		Active:         true,
	}

	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 30})
	instances, err := expander.Expand(ev, from, to)
	require.NoError(t, err)

	require.Len(t, instances, 4)
	assert.Equal(t, Date{2024, time.June, 7}, resolver.DateOf(instances[0].Start))
	for _, inst := range instances {
		assert.Equal(t, time.Friday, resolver.Weekday(inst.Start))
	}
}

func TestExpandIncludesAnchorEvenWhenRuleWouldNot(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	// The anchor sits on the 15th but the rule only produces the 1st of each
	// month. The anchor's own occurrence still shows.
	anchor := resolver.AtTime(Date{2024, time.June, 15}, 18, 0, 0)
	ev := Event{
		StartTime:      anchor,
		RecurrenceRule: "FREQ=MONTHLY;BYMONTHDAY=1",
		Active:         true,
	}

	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.August, 31})
	instances, err := expander.Expand(ev, from, to)
	require.NoError(t, err)

	var dates []Date
	for _, inst := range instances {
		dates = append(dates, resolver.DateOf(inst.Start))
	}
	assert.Equal(t, []Date{
		{2024, time.June, 15},
		{2024, time.July, 1},
		{2024, time.August, 1},
	}, dates)
}

func TestExpandNeverProducesOccurrenceBeforeAnchorDate(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	anchor := resolver.AtTime(Date{2024, time.June, 15}, 18, 0, 0)
	ev := Event{
		StartTime:      anchor,
		RecurrenceRule: "FREQ=DAILY",
		Active:         true,
	}

	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 20})
	instances, err := expander.Expand(ev, from, to)
	require.NoError(t, err)

	require.NotEmpty(t, instances)
	assert.Equal(t, Date{2024, time.June, 15}, resolver.DateOf(instances[0].Start))
}

func TestExpandExceptionRemovesExactlyThatDate(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	anchor := resolver.AtTime(Date{2024, time.July, 1}, 17, 0, 0)
	ev := Event{
		StartTime:      anchor,
		RecurrenceRule: "FREQ=DAILY",
		ExceptionDates: []string{"2024-07-04"},
		Active:         true,
	}

	from, to := expandRange(resolver, Date{2024, time.July, 1}, Date{2024, time.July, 7})
	instances, err := expander.Expand(ev, from, to)
	require.NoError(t, err)

	require.Len(t, instances, 6)
	for _, inst := range instances {
		assert.NotEqual(t, Date{2024, time.July, 4}, resolver.DateOf(inst.Start))
	}
}

func TestExpandMonthlyKeepsBusinessLocalMonthDay(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	// A late-evening anchor is where UTC-based month math lands on the wrong
	// day: 23:00 Eastern is already the next day in UTC.
	anchor := resolver.AtTime(Date{2024, time.January, 15}, 23, 0, 0)
	ev := Event{
		StartTime:      anchor,
		RecurrenceRule: "FREQ=MONTHLY;BYMONTHDAY=15",
		Active:         true,
	}

	from, to := expandRange(resolver, Date{2024, time.January, 1}, Date{2024, time.June, 30})
	instances, err := expander.Expand(ev, from, to)
	require.NoError(t, err)

	require.Len(t, instances, 6)
	for _, inst := range instances {
		wc := resolver.ToWallClock(inst.Start)
		assert.Equal(t, 15, wc.Day)
		assert.Equal(t, 23, wc.Hour)
	}
}

func TestExpandUnparseableRuleDegradesToAnchor(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	anchor := resolver.AtTime(Date{2024, time.June, 15}, 20, 0, 0)
	ev := Event{
		StartTime:      anchor,
		RecurrenceRule: "FREQ=SOMETIMES",
		Active:         true,
	}

	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 30})
	instances, err := expander.Expand(ev, from, to)

	assert.ErrorIs(t, err, ErrBadRecurrenceRule)
	require.Len(t, instances, 1)
	assert.Equal(t, anchor, instances[0].Start)
}

func TestExpandNonRecurringReturnsAnchorInRangeOnly(t *testing.T) {
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)

	anchor := resolver.AtTime(Date{2024, time.June, 15}, 20, 0, 0)
	ev := Event{StartTime: anchor, Active: true}

	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 30})
	instances, err := expander.Expand(ev, from, to)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	from, to = expandRange(resolver, Date{2024, time.July, 1}, Date{2024, time.July, 31})
	instances, err = expander.Expand(ev, from, to)
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestCorrectMonthDayDrift(t *testing.T) {
	t.Run("drift within the month", func(t *testing.T) {
		d, ok := correctMonthDay(Date{2024, time.July, 16}, 15)
		require.True(t, ok)
		assert.Equal(t, Date{2024, time.July, 15}, d)
	})

	t.Run("forward drift across a month boundary keeps the rule's month", func(t *testing.T) {
		// Intended July 31, drifted into August 1: the corrected date is
		// July 31, not August 31.
		d, ok := correctMonthDay(Date{2024, time.August, 1}, 31)
		require.True(t, ok)
		assert.Equal(t, Date{2024, time.July, 31}, d)
	})

	t.Run("backward drift across a month boundary", func(t *testing.T) {
		// Intended August 1, drifted back onto July 31.
		d, ok := correctMonthDay(Date{2024, time.July, 31}, 1)
		require.True(t, ok)
		assert.Equal(t, Date{2024, time.August, 1}, d)
	})

	t.Run("forward drift across a year boundary", func(t *testing.T) {
		d, ok := correctMonthDay(Date{2025, time.January, 1}, 31)
		require.True(t, ok)
		assert.Equal(t, Date{2024, time.December, 31}, d)
	})

	t.Run("months too short to contain the day are skipped", func(t *testing.T) {
		// Intended February 30 does not exist, even after a drift onto
		// March 1.
		_, ok := correctMonthDay(Date{2024, time.March, 1}, 30)
		assert.False(t, ok)
	})
}
