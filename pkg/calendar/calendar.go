package calendar

import (
	"time"
)

// ViewMode selects the calendar layout the occurrences are computed for.
// Day and week views share display limits, month view has tighter ones.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

type SourceType string

const (
	SourceEvent        SourceType = "event"
	SourceSpecial      SourceType = "special"
	SourceAnnouncement SourceType = "announcement"
)

type SpecialType string

const (
	SpecialFood  SpecialType = "food"
	SpecialDrink SpecialType = "drink"
)

// Event is a calendar event record. StartTime is the anchor occurrence when
// RecurrenceRule is set. ExceptionDates hold business-local dates
// ("2006-01-02") to skip, never instants.
type Event struct {
	ID             int
	Title          string
	Description    string
	StartTime      time.Time
	EndTime        time.Time // zero value means no end time
	AllDay         bool
	RecurrenceRule string // RFC 5545 RRULE body, empty means non-recurring
	ExceptionDates []string
	Tags           []string
	Active         bool
	VenueArea      string
}

func (e Event) Recurring() bool {
	return e.RecurrenceRule != ""
}

// Special is a food or drink special. Food specials run over a date range
// (EndDate empty means a single day). Drink specials either recur weekly on
// Weekdays or run over a date range. Active is record state only and does not
// gate visibility in the admin calendar.
type Special struct {
	ID        int
	Title     string
	Type      SpecialType
	StartDate Date // zero value means unset
	EndDate   Date
	Weekdays  []time.Weekday
	Active    bool
}

// Announcement is shown on every day between PublishAt and ExpiresAt.
// Published does not gate visibility in the admin calendar.
type Announcement struct {
	ID        int
	Title     string
	PublishAt time.Time
	ExpiresAt time.Time
	Published bool
}

// Occurrence is one concrete calendar appearance of an item. Occurrences are
// derived fresh per query and never persisted.
type Occurrence struct {
	SourceID    int
	SourceType  SourceType
	SpecialType SpecialType // set for specials only
	Title       string
	DisplayDate Date
	Start       time.Time
	End         time.Time // zero value means no end time
	AllDay      bool
	Recurring   bool
	Tags        []string
	VenueArea   string
}

// DayOccurrences is one day bucket of the computed view, already capped for
// display.
type DayOccurrences struct {
	Date        Date
	Occurrences []Occurrence
}
