package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisibleHoursExplicitConfigWins(t *testing.T) {
	hours := BusinessHours{
		time.Monday: {Open: "09:00", Close: "17:00"},
	}

	got := VisibleHours(&HourRange{StartHour: 16, EndHour: 26}, hours)

	assert.Equal(t, hourSpan(16, 26), got)
}

func TestVisibleHoursInvalidExplicitFallsBackToInference(t *testing.T) {
	hours := BusinessHours{
		time.Monday: {Open: "10:00", Close: "22:00"},
	}

	got := VisibleHours(&HourRange{StartHour: -3, EndHour: 99}, hours)

	// 10:00 open minus 2h padding; the 22 bucket covers the hour past close.
	assert.Equal(t, hourSpan(8, 22), got)
}

func TestVisibleHoursOvernightClose(t *testing.T) {
	hours := BusinessHours{
		time.Friday: {Open: "10:00", Close: "02:00"},
	}

	got := VisibleHours(nil, hours)

	// Close past midnight contributes 2+24=26, whose bucket covers the hour
	// past close; open 10 padded down to 8.
	assert.Equal(t, hourSpan(8, 26), got)
	seen := map[int]bool{}
	for _, h := range got {
		assert.False(t, seen[h], "duplicate hour bucket %d", h)
		seen[h] = true
	}
}

func TestVisibleHoursSpansAllConfiguredDays(t *testing.T) {
	hours := BusinessHours{
		time.Monday: {Open: "16:00", Close: "23:00"},
		time.Friday: {Open: "11:00", Close: "01:00"},
	}

	got := VisibleHours(nil, hours)

	// Earliest open 11:00, latest close 01:00 next day (25).
	assert.Equal(t, hourSpan(9, 25), got)
}

func TestVisibleHoursClampsToBounds(t *testing.T) {
	hours := BusinessHours{
		time.Saturday: {Open: "00:30", Close: "23:45"},
	}

	got := VisibleHours(nil, hours)

	assert.Equal(t, 0, got[0])
	assert.LessOrEqual(t, got[len(got)-1], 47)
}

func TestVisibleHoursMalformedDaysAreSkipped(t *testing.T) {
	hours := BusinessHours{
		time.Monday:  {Open: "banana", Close: "17:00"},
		time.Tuesday: {Open: "12:00", Close: "20:00"},
	}

	got := VisibleHours(nil, hours)

	assert.Equal(t, hourSpan(10, 20), got)
}

func TestVisibleHoursDefaultsToFullDay(t *testing.T) {
	assert.Equal(t, hourSpan(0, 23), VisibleHours(nil, nil))
	assert.Equal(t, hourSpan(0, 23), VisibleHours(nil, BusinessHours{
		time.Monday: {Open: "closed", Close: "closed"},
	}))
}
