package calendar

import (
	"sort"
	"strings"
)

// EventCategory is one ordered display-priority bucket for event occurrences.
// Categories are injectable: the product ships a keyword-based default list,
// but callers can replace it without touching the selector.
type EventCategory struct {
	Name    string
	Matches func(o Occurrence) bool
}

// DefaultEventCategories returns the product's priority order. An explicit
// matching tag wins; the title keyword match remains as a fallback for legacy
// records that never got tagged.
func DefaultEventCategories() []EventCategory {
	keyword := func(name string, words ...string) EventCategory {
		return EventCategory{
			Name: name,
			Matches: func(o Occurrence) bool {
				for _, tag := range o.Tags {
					if strings.EqualFold(tag, name) {
						return true
					}
				}
				title := strings.ToLower(o.Title)
				for _, w := range words {
					if strings.Contains(title, w) {
						return true
					}
				}
				return false
			},
		}
	}
	return []EventCategory{
		keyword("trivia", "trivia", "quiz"),
		keyword("karaoke", "karaoke"),
		keyword("live-music", "live music", "band", "dj"),
		keyword("private-event", "private", "buyout"),
	}
}

// Limits caps how many occurrences of a kind render per day bucket.
type Limits struct {
	Events        int
	Announcements int
}

// Selector orders and truncates per-day occurrence sets for display. Each day
// keeps at most one food special and one drink special (first in input
// order), a capped number of announcements, and a capped number of events
// ordered by category, then recurring before non-recurring, then input order.
type Selector struct {
	categories []EventCategory
	dayWeek    Limits
	month      Limits
}

func NewSelector(categories []EventCategory, dayWeek, month Limits) *Selector {
	return &Selector{categories: categories, dayWeek: dayWeek, month: month}
}

// SelectForDisplay buckets an aggregated occurrence stream by display date
// and applies the per-day caps for the view mode. Input order within a day is
// preserved wherever the ordering rules do not say otherwise.
func (s *Selector) SelectForDisplay(occurrences []Occurrence, mode ViewMode) []DayOccurrences {
	limits := s.dayWeek
	if mode == ViewMonth {
		limits = s.month
	}

	var dates []Date
	byDate := make(map[Date][]Occurrence)
	for _, o := range occurrences {
		if _, ok := byDate[o.DisplayDate]; !ok {
			dates = append(dates, o.DisplayDate)
		}
		byDate[o.DisplayDate] = append(byDate[o.DisplayDate], o)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]DayOccurrences, 0, len(dates))
	for _, d := range dates {
		out = append(out, DayOccurrences{Date: d, Occurrences: s.selectDay(byDate[d], limits)})
	}
	return out
}

func (s *Selector) selectDay(day []Occurrence, limits Limits) []Occurrence {
	var events, announcements []Occurrence
	var food, drink *Occurrence
	for i, o := range day {
		switch o.SourceType {
		case SourceEvent:
			events = append(events, o)
		case SourceAnnouncement:
			announcements = append(announcements, o)
		case SourceSpecial:
			if o.SpecialType == SpecialFood && food == nil {
				food = &day[i]
			}
			if o.SpecialType == SpecialDrink && drink == nil {
				drink = &day[i]
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		ci, cj := s.categoryIndex(events[i]), s.categoryIndex(events[j])
		if ci != cj {
			return ci < cj
		}
		if events[i].Recurring != events[j].Recurring {
			return events[i].Recurring
		}
		return false
	})
	if len(events) > limits.Events {
		events = events[:limits.Events]
	}
	if len(announcements) > limits.Announcements {
		announcements = announcements[:limits.Announcements]
	}

	selected := make([]Occurrence, 0, len(events)+len(announcements)+2)
	selected = append(selected, events...)
	if food != nil {
		selected = append(selected, *food)
	}
	if drink != nil {
		selected = append(selected, *drink)
	}
	selected = append(selected, announcements...)
	return selected
}

// categoryIndex returns the index of the first matching category, or one past
// the end when nothing matches.
func (s *Selector) categoryIndex(o Occurrence) int {
	for i, c := range s.categories {
		if c.Matches(o) {
			return i
		}
	}
	return len(s.categories)
}
