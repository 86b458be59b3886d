package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYorkResolver(t *testing.T) *Resolver {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return NewResolver(loc)
}

func TestWallClockRoundTrip(t *testing.T) {
	resolver := newYorkResolver(t)

	wc := WallClock{2024, time.June, 15, 19, 30, 0}
	instant := resolver.FromWallClock(wc)

	assert.Equal(t, wc, resolver.ToWallClock(instant))
	assert.Equal(t, "2024-06-15T19:30:00-04:00", instant.Format(time.RFC3339))
}

func TestFromWallClockIndependentOfCallerZone(t *testing.T) {
	resolver := newYorkResolver(t)

	wc := WallClock{2024, time.January, 10, 12, 0, 0}
	instant := resolver.FromWallClock(wc)

	// Noon Eastern standard time is 17:00 UTC no matter where the process runs.
	assert.Equal(t, time.Date(2024, time.January, 10, 17, 0, 0, 0, time.UTC), instant.UTC())
}

func TestFromWallClockFallBackOverlapPicksEarlierInstant(t *testing.T) {
	resolver := newYorkResolver(t)

	// 2024-11-03 01:30 happens twice in New York: 05:30 UTC (EDT) and
	// 06:30 UTC (EST). The earlier instant wins.
	wc := WallClock{2024, time.November, 3, 1, 30, 0}
	instant := resolver.FromWallClock(wc)

	assert.Equal(t, time.Date(2024, time.November, 3, 5, 30, 0, 0, time.UTC), instant.UTC())
	assert.Equal(t, wc, resolver.ToWallClock(instant))
}

func TestFromWallClockSpringForwardGapResolvesAfterGap(t *testing.T) {
	resolver := newYorkResolver(t)

	// 2024-03-10 02:30 does not exist in New York; the clock jumps from
	// 02:00 EST to 03:00 EDT. The first valid instant after the gap is
	// 03:00 EDT, i.e. 07:00 UTC.
	instant := resolver.FromWallClock(WallClock{2024, time.March, 10, 2, 30, 0})

	assert.Equal(t, time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC), instant.UTC())
	assert.Equal(t, WallClock{2024, time.March, 10, 3, 0, 0}, resolver.ToWallClock(instant))
}

func TestDateOfUsesBusinessLocalDay(t *testing.T) {
	resolver := newYorkResolver(t)

	// 03:00 UTC is still the previous evening in New York.
	instant := time.Date(2024, time.June, 16, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, Date{2024, time.June, 15}, resolver.DateOf(instant))
}

func TestDateArithmetic(t *testing.T) {
	t.Run("AddDays normalizes across month boundaries", func(t *testing.T) {
		assert.Equal(t, Date{2024, time.July, 2}, Date{2024, time.June, 30}.AddDays(2))
		assert.Equal(t, Date{2025, time.January, 1}, Date{2024, time.December, 31}.Next())
	})

	t.Run("Weekday", func(t *testing.T) {
		assert.Equal(t, time.Thursday, Date{2024, time.July, 4}.Weekday())
	})

	t.Run("ordering", func(t *testing.T) {
		assert.True(t, Date{2024, time.June, 30}.Before(Date{2024, time.July, 1}))
		assert.True(t, Date{2024, time.July, 1}.After(Date{2024, time.June, 30}))
	})

	t.Run("DaysInMonth", func(t *testing.T) {
		assert.Equal(t, 29, Date{2024, time.February, 1}.DaysInMonth())
		assert.Equal(t, 28, Date{2025, time.February, 1}.DaysInMonth())
	})

	t.Run("parse and format", func(t *testing.T) {
		d, err := ParseDate("2024-07-04")
		assert.NoError(t, err)
		assert.Equal(t, Date{2024, time.July, 4}, d)
		assert.Equal(t, "2024-07-04", d.String())

		_, err = ParseDate("not-a-date")
		assert.Error(t, err)
	})
}
