package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HourRange is the explicit visible-hours setting. EndHour values of 24 and
// above denote hours of the following day (an overnight bar closing at 02:00
// uses EndHour 26).
type HourRange struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

func (h HourRange) Valid() bool {
	return h.StartHour >= 0 && h.StartHour <= 23 &&
		h.EndHour >= h.StartHour && h.EndHour <= 49
}

// DayHours is a single day's opening hours, "HH:MM" on a 24h clock.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// BusinessHours maps weekdays to their opening hours. Days the venue is
// closed are simply absent.
type BusinessHours map[time.Weekday]DayHours

// VisibleHours derives the ordered, deduplicated hour buckets to render for a
// day. An explicit valid range wins outright. Otherwise the range is inferred
// from business hours: two hours of padding before the earliest open, and
// the bucket at the latest close hour itself covers the hour after close. A
// close earlier than its open means the venue runs past midnight and
// contributes close+24. With no usable hours data at all, every hour of the
// day renders.
func VisibleHours(explicit *HourRange, hours BusinessHours) []int {
	if explicit != nil && explicit.Valid() {
		return hourSpan(explicit.StartHour, min(explicit.EndHour, 47))
	}

	minOpen, maxClose := -1, -1
	for _, day := range hours {
		openHour, err := parseHour(day.Open)
		if err != nil {
			continue
		}
		closeHour, err := parseHour(day.Close)
		if err != nil {
			continue
		}
		if closeHour < openHour {
			closeHour += 24
		}
		if minOpen == -1 || openHour < minOpen {
			minOpen = openHour
		}
		if closeHour > maxClose {
			maxClose = closeHour
		}
	}
	if minOpen == -1 {
		return hourSpan(0, 23)
	}

	return hourSpan(max(minOpen-2, 0), min(maxClose, 47))
}

func hourSpan(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for h := from; h <= to; h++ {
		out = append(out, h)
	}
	return out
}

func parseHour(hhmm string) (int, error) {
	h, _, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	return hour, nil
}
