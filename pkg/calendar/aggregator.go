package calendar

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// Aggregator merges events, specials, and announcements into one occurrence
// stream for a view range. Events respect Active; specials and announcements
// always render in the admin calendar regardless of their record state.
type Aggregator struct {
	resolver *Resolver
	expander *Expander
}

func NewAggregator(resolver *Resolver, expander *Expander) *Aggregator {
	return &Aggregator{resolver: resolver, expander: expander}
}

// Aggregate returns all occurrences within [rangeStart, rangeEnd], sorted
// ascending by display date. Items of the same day keep their input order.
func (a *Aggregator) Aggregate(events []Event, specials []Special, announcements []Announcement, rangeStart, rangeEnd time.Time) []Occurrence {
	firstDate := a.resolver.DateOf(rangeStart)
	lastDate := a.resolver.DateOf(rangeEnd)

	var out []Occurrence
	out = append(out, a.eventOccurrences(events, rangeStart, rangeEnd)...)
	for _, sp := range specials {
		out = append(out, a.specialOccurrences(sp, firstDate, lastDate)...)
	}
	for _, an := range announcements {
		out = append(out, a.announcementOccurrences(an, firstDate, lastDate)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayDate != out[j].DisplayDate {
			return out[i].DisplayDate.Before(out[j].DisplayDate)
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func (a *Aggregator) eventOccurrences(events []Event, rangeStart, rangeEnd time.Time) []Occurrence {
	var out []Occurrence
	for _, ev := range events {
		if !ev.Active {
			continue
		}
		instances, err := a.expander.Expand(ev, rangeStart, rangeEnd)
		if err != nil {
			// Degraded to the anchor occurrence; keep going.
			log.Warnf("event %d: %v", ev.ID, err)
		}
		for _, inst := range instances {
			out = append(out, Occurrence{
				SourceID:    ev.ID,
				SourceType:  SourceEvent,
				Title:       ev.Title,
				DisplayDate: a.resolver.DateOf(inst.Start),
				Start:       inst.Start,
				End:         inst.End,
				AllDay:      ev.AllDay,
				Recurring:   ev.Recurring(),
				Tags:        ev.Tags,
				VenueArea:   ev.VenueArea,
			})
		}
	}
	return out
}

func (a *Aggregator) specialOccurrences(sp Special, firstDate, lastDate Date) []Occurrence {
	var out []Occurrence
	emit := func(d Date) {
		out = append(out, Occurrence{
			SourceID:    sp.ID,
			SourceType:  SourceSpecial,
			SpecialType: sp.Type,
			Title:       sp.Title,
			DisplayDate: d,
			Start:       a.resolver.StartOfDay(d),
			AllDay:      true,
		})
	}

	if sp.Type == SpecialDrink && len(sp.Weekdays) > 0 {
		allowed := make(map[time.Weekday]struct{}, len(sp.Weekdays))
		for _, wd := range sp.Weekdays {
			allowed[wd] = struct{}{}
		}
		for d := firstDate; !d.After(lastDate); d = d.Next() {
			if _, ok := allowed[d.Weekday()]; ok {
				emit(d)
			}
		}
		return out
	}

	if sp.StartDate.IsZero() {
		return nil
	}
	end := sp.EndDate
	if end.IsZero() {
		end = sp.StartDate
	}
	for d := maxDate(sp.StartDate, firstDate); !d.After(minDate(end, lastDate)); d = d.Next() {
		emit(d)
	}
	return out
}

func (a *Aggregator) announcementOccurrences(an Announcement, firstDate, lastDate Date) []Occurrence {
	if an.PublishAt.IsZero() || an.ExpiresAt.IsZero() {
		return nil
	}
	from := maxDate(a.resolver.DateOf(an.PublishAt), firstDate)
	to := minDate(a.resolver.DateOf(an.ExpiresAt), lastDate)

	var out []Occurrence
	for d := from; !d.After(to); d = d.Next() {
		out = append(out, Occurrence{
			SourceID:    an.ID,
			SourceType:  SourceAnnouncement,
			Title:       an.Title,
			DisplayDate: d,
			Start:       a.resolver.StartOfDay(d),
			AllDay:      true,
		})
	}
	return out
}

func maxDate(a, b Date) Date {
	if a.Before(b) {
		return b
	}
	return a
}

func minDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}
