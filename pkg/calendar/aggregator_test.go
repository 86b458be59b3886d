package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator(t *testing.T) (*Aggregator, *Resolver) {
	t.Helper()
	resolver := newYorkResolver(t)
	return NewAggregator(resolver, NewExpander(resolver)), resolver
}

func displayDates(occurrences []Occurrence) []Date {
	dates := make([]Date, 0, len(occurrences))
	for _, o := range occurrences {
		dates = append(dates, o.DisplayDate)
	}
	return dates
}

func TestAggregateFoodSpecialDateRange(t *testing.T) {
	aggregator, resolver := newAggregator(t)
	from, to := expandRange(resolver, Date{2024, time.May, 1}, Date{2024, time.June, 30})

	for _, active := range []bool{true, false} {
		specials := []Special{{
			ID:        1,
			Title:     "Lobster Week",
			Type:      SpecialFood,
			StartDate: Date{2024, time.June, 1},
			EndDate:   Date{2024, time.June, 3},
			Active:    active,
		}}

		occurrences := aggregator.Aggregate(nil, specials, nil, from, to)

		assert.Equal(t, []Date{
			{2024, time.June, 1},
			{2024, time.June, 2},
			{2024, time.June, 3},
		}, displayDates(occurrences), "isActive=%v must not gate visibility", active)
	}
}

func TestAggregateFoodSpecialSingleDayDefault(t *testing.T) {
	aggregator, resolver := newAggregator(t)
	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 30})

	specials := []Special{{
		ID:        1,
		Title:     "Taco Tuesday One-Off",
		Type:      SpecialFood,
		StartDate: Date{2024, time.June, 11},
	}}

	occurrences := aggregator.Aggregate(nil, specials, nil, from, to)

	assert.Equal(t, []Date{{2024, time.June, 11}}, displayDates(occurrences))
}

func TestAggregateDrinkSpecialWeekly(t *testing.T) {
	aggregator, resolver := newAggregator(t)
	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 30})

	specials := []Special{{
		ID:       2,
		Title:    "Friday Old Fashioneds",
		Type:     SpecialDrink,
		Weekdays: []time.Weekday{time.Friday},
	}}

	occurrences := aggregator.Aggregate(nil, specials, nil, from, to)

	assert.Equal(t, []Date{
		{2024, time.June, 7},
		{2024, time.June, 14},
		{2024, time.June, 21},
		{2024, time.June, 28},
	}, displayDates(occurrences))
}

func TestAggregateDrinkSpecialDateRange(t *testing.T) {
	aggregator, resolver := newAggregator(t)
	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 30})

	specials := []Special{{
		ID:        3,
		Title:     "Negroni Week",
		Type:      SpecialDrink,
		StartDate: Date{2024, time.June, 28},
		EndDate:   Date{2024, time.July, 2},
	}}

	occurrences := aggregator.Aggregate(nil, specials, nil, from, to)

	// Clipped to the queried range.
	assert.Equal(t, []Date{
		{2024, time.June, 28},
		{2024, time.June, 29},
		{2024, time.June, 30},
	}, displayDates(occurrences))
}

func TestAggregateAnnouncementsPerDayClipped(t *testing.T) {
	aggregator, resolver := newAggregator(t)
	from, to := expandRange(resolver, Date{2024, time.June, 10}, Date{2024, time.June, 12})

	announcements := []Announcement{{
		ID:        1,
		Title:     "New Summer Menu",
		PublishAt: resolver.AtTime(Date{2024, time.June, 8}, 9, 0, 0),
		ExpiresAt: resolver.AtTime(Date{2024, time.June, 20}, 23, 0, 0),
		Published: false,
	}}

	occurrences := aggregator.Aggregate(nil, nil, announcements, from, to)

	assert.Equal(t, []Date{
		{2024, time.June, 10},
		{2024, time.June, 11},
		{2024, time.June, 12},
	}, displayDates(occurrences))
}

func TestAggregateEvents(t *testing.T) {
	aggregator, resolver := newAggregator(t)
	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 30})

	events := []Event{
		{
			ID:        1,
			Title:     "Inactive Event",
			StartTime: resolver.AtTime(Date{2024, time.June, 10}, 20, 0, 0),
			Active:    false,
		},
		{
			ID:        2,
			Title:     "Wine Tasting",
			StartTime: resolver.AtTime(Date{2024, time.June, 12}, 18, 0, 0),
			Active:    true,
		},
		{
			ID:             3,
			Title:          "Karaoke",
			StartTime:      resolver.AtTime(Date{2024, time.June, 6}, 21, 0, 0),
			RecurrenceRule: "FREQ=WEEKLY;BYDAY=TH",
			Active:         true,
		},
	}

	occurrences := aggregator.Aggregate(events, nil, nil, from, to)

	var eventIDs []int
	for _, o := range occurrences {
		assert.Equal(t, SourceEvent, o.SourceType)
		eventIDs = append(eventIDs, o.SourceID)
	}
	// Thursdays June 6, 13, 20, 27 plus the one-off on the 12th; the
	// inactive event is gone entirely.
	assert.Equal(t, []int{3, 2, 3, 3, 3}, eventIDs)
	assert.NotContains(t, eventIDs, 1)
}

func TestAggregateSortsByDisplayDate(t *testing.T) {
	aggregator, resolver := newAggregator(t)
	from, to := expandRange(resolver, Date{2024, time.June, 1}, Date{2024, time.June, 30})

	events := []Event{{
		ID:        9,
		Title:     "Late Event",
		StartTime: resolver.AtTime(Date{2024, time.June, 25}, 20, 0, 0),
		Active:    true,
	}}
	specials := []Special{{
		ID:        4,
		Title:     "Early Special",
		Type:      SpecialFood,
		StartDate: Date{2024, time.June, 2},
	}}

	occurrences := aggregator.Aggregate(events, specials, nil, from, to)

	require.Len(t, occurrences, 2)
	assert.Equal(t, Date{2024, time.June, 2}, occurrences[0].DisplayDate)
	assert.Equal(t, Date{2024, time.June, 25}, occurrences[1].DisplayDate)
}
