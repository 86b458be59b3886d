package calendar

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/barkeep/barkeep/internal/event_bus"
)

var ErrNotReschedulable = errors.New("occurrence cannot be rescheduled")

// RescheduleTarget is where a dragged occurrence was dropped: a business-local
// day plus hour and minute. The minute snaps to the nearest half hour.
type RescheduleTarget struct {
	Day    Date
	Hour   int
	Minute int
}

// EventWriter is the persistence collaborator that applies the proposed
// start/end mutation and returns the updated record.
type EventWriter interface {
	UpdateEvent(ctx context.Context, ev Event) (*Event, error)
}

// Committer computes the new start/end for a dragged occurrence and hands the
// mutation to the persistence collaborator. Only the start and end change;
// recurrence rule, exceptions, and every other field are preserved.
//
// The commit is optimistic: the caller applies the new time to its local view
// before persistence resolves, and a failure does not roll that back. The
// outcome is published on the event bus keyed by event id and occurrence
// date, so a view that has since moved on can ignore it.
type Committer struct {
	resolver *Resolver
	writer   EventWriter
	bus      *event_bus.EventBus
}

func NewCommitter(resolver *Resolver, writer EventWriter, bus *event_bus.EventBus) *Committer {
	return &Committer{resolver: resolver, writer: writer, bus: bus}
}

// Commit moves one occurrence of ev to the target day and time. The new end
// preserves the original duration, defaulting to one hour when the event has
// no end time. occurrenceDate is the business-local date of the dragged
// instance, carried through for disambiguation only.
func (c *Committer) Commit(ctx context.Context, ev Event, occurrenceDate Date, target RescheduleTarget) (*Event, error) {
	if ev.AllDay {
		return nil, fmt.Errorf("%w: all-day event %d", ErrNotReschedulable, ev.ID)
	}

	hour, minute := snapToHalfHour(target.Hour, target.Minute)

	duration := time.Hour
	if !ev.EndTime.IsZero() {
		duration = ev.EndTime.Sub(ev.StartTime)
	}

	newStart := c.resolver.AtTime(target.Day, hour, minute, 0)
	newEnd := newStart.Add(duration)

	ev.StartTime = newStart
	ev.EndTime = newEnd

	updated, err := c.writer.UpdateEvent(ctx, ev)
	if err != nil {
		c.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventRescheduleFailed, event_bus.EventRescheduleFailedPayload{
			EventID:        ev.ID,
			OccurrenceDate: occurrenceDate.String(),
			Err:            err,
		}))
		return nil, fmt.Errorf("failed to persist reschedule of event %d: %w", ev.ID, err)
	}

	c.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventRescheduled, event_bus.EventRescheduledPayload{
		EventID:        ev.ID,
		OccurrenceDate: occurrenceDate.String(),
		NewStart:       newStart,
		NewEnd:         newEnd,
	}))
	return updated, nil
}

// snapToHalfHour rounds a minute to the nearest 30-minute boundary, carrying
// into the hour when it rounds up to 60.
func snapToHalfHour(hour, minute int) (int, int) {
	snapped := int(math.Round(float64(minute)/30)) * 30
	if snapped == 60 {
		return hour + 1, 0
	}
	return hour, snapped
}
