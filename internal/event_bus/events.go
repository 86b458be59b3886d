package event_bus

import "time"

const (
	// EventRescheduled is published after a calendar event's start/end have
	// been moved and the change was persisted.
	EventRescheduled EventType = "calendar.event.rescheduled"
	// EventRescheduleFailed is published when persisting a move failed. The
	// in-memory view keeps the optimistic change; subscribers decide how to
	// notify the admin.
	EventRescheduleFailed EventType = "calendar.event.reschedule_failed"
)

// EventRescheduledPayload identifies the moved occurrence. OccurrenceDate is
// the business-local date of the clicked instance, so subscribers can ignore
// results for instances that are no longer displayed.
type EventRescheduledPayload struct {
	EventID        int
	OccurrenceDate string
	NewStart       time.Time
	NewEnd         time.Time
}

// EventRescheduleFailedPayload carries the failure for user notification.
type EventRescheduleFailedPayload struct {
	EventID        int
	OccurrenceDate string
	Err            error
}
