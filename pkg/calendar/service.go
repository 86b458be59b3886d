package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrSpecialNotFound      = errors.New("special not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrInvalidRange         = errors.New("invalid view range")
)

// SettingsProvider reads the visible-hours configuration. A nil HourRange
// with no error means nothing is configured and hours are inferred from
// business hours instead.
type SettingsProvider interface {
	VisibleHours(ctx context.Context) (*HourRange, error)
	BusinessHours(ctx context.Context) (BusinessHours, error)
}

// Service computes calendar views and applies record mutations. View
// computation is pure and recomputed in full per query; nothing derived is
// cached or persisted.
type Service struct {
	repo       Repository
	settings   SettingsProvider
	resolver   *Resolver
	aggregator *Aggregator
	selector   *Selector
	committer  *Committer
}

func NewService(repo Repository, settings SettingsProvider, resolver *Resolver, aggregator *Aggregator, selector *Selector, committer *Committer) *Service {
	return &Service{
		repo:       repo,
		settings:   settings,
		resolver:   resolver,
		aggregator: aggregator,
		selector:   selector,
		committer:  committer,
	}
}

// GetView returns the per-day capped occurrence lists for a range and view
// mode.
func (s *Service) GetView(ctx context.Context, from, to time.Time, mode ViewMode) ([]DayOccurrences, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, to, from)
	}

	events, err := s.repo.FindEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	specials, err := s.repo.FindSpecials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load specials: %w", err)
	}
	announcements, err := s.repo.FindAnnouncements(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load announcements: %w", err)
	}

	occurrences := s.aggregator.Aggregate(events, specials, announcements, from, to)
	return s.selector.SelectForDisplay(occurrences, mode), nil
}

// GetVisibleHours returns the hour buckets to render. Malformed explicit
// settings fall through to business-hours inference, and from there to the
// full 24-hour default.
func (s *Service) GetVisibleHours(ctx context.Context) ([]int, error) {
	explicit, err := s.settings.VisibleHours(ctx)
	if err != nil {
		log.Warnf("ignoring unreadable visible hours setting: %v", err)
		explicit = nil
	}
	hours, err := s.settings.BusinessHours(ctx)
	if err != nil {
		log.Warnf("ignoring unreadable business hours setting: %v", err)
		hours = nil
	}
	return VisibleHours(explicit, hours), nil
}

// Reschedule moves one occurrence of an event to the target day and time.
func (s *Service) Reschedule(ctx context.Context, eventID int, occurrenceDate Date, target RescheduleTarget) (*Event, error) {
	ev, err := s.repo.FindEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: %d", ErrEventNotFound, eventID)
	}
	return s.committer.Commit(ctx, *ev, occurrenceDate, target)
}

func (s *Service) CreateEvent(ctx context.Context, ev Event) (*Event, error) {
	if ev.Title == "" {
		return nil, errors.New("event title is required")
	}
	if ev.StartTime.IsZero() {
		return nil, errors.New("event start time is required")
	}
	id, err := s.repo.StoreEvent(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}
	ev.ID = id
	return &ev, nil
}

func (s *Service) UpdateEvent(ctx context.Context, ev Event) (*Event, error) {
	updated, err := s.repo.UpdateEvent(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("failed to update event %d: %w", ev.ID, err)
	}
	return updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id int) error {
	return s.repo.DeleteEvent(ctx, id)
}

func (s *Service) CreateSpecial(ctx context.Context, sp Special) (*Special, error) {
	if sp.Title == "" {
		return nil, errors.New("special title is required")
	}
	if sp.Type != SpecialFood && sp.Type != SpecialDrink {
		return nil, fmt.Errorf("unknown special type %q", sp.Type)
	}
	if sp.Type == SpecialFood && sp.StartDate.IsZero() {
		return nil, errors.New("food special start date is required")
	}
	if sp.Type == SpecialDrink && len(sp.Weekdays) == 0 && sp.StartDate.IsZero() {
		return nil, errors.New("drink special needs weekdays or a date range")
	}
	id, err := s.repo.StoreSpecial(ctx, sp)
	if err != nil {
		return nil, fmt.Errorf("failed to store special: %w", err)
	}
	sp.ID = id
	return &sp, nil
}

func (s *Service) UpdateSpecial(ctx context.Context, sp Special) (*Special, error) {
	updated, err := s.repo.UpdateSpecial(ctx, sp)
	if err != nil {
		return nil, fmt.Errorf("failed to update special %d: %w", sp.ID, err)
	}
	return updated, nil
}

func (s *Service) DeleteSpecial(ctx context.Context, id int) error {
	return s.repo.DeleteSpecial(ctx, id)
}

func (s *Service) CreateAnnouncement(ctx context.Context, an Announcement) (*Announcement, error) {
	if an.Title == "" {
		return nil, errors.New("announcement title is required")
	}
	if an.PublishAt.IsZero() || an.ExpiresAt.IsZero() {
		return nil, errors.New("announcement publish and expiry times are required")
	}
	if an.ExpiresAt.Before(an.PublishAt) {
		return nil, errors.New("announcement expires before it is published")
	}
	id, err := s.repo.StoreAnnouncement(ctx, an)
	if err != nil {
		return nil, fmt.Errorf("failed to store announcement: %w", err)
	}
	an.ID = id
	return &an, nil
}

func (s *Service) UpdateAnnouncement(ctx context.Context, an Announcement) (*Announcement, error) {
	updated, err := s.repo.UpdateAnnouncement(ctx, an)
	if err != nil {
		return nil, fmt.Errorf("failed to update announcement %d: %w", an.ID, err)
	}
	return updated, nil
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id int) error {
	return s.repo.DeleteAnnouncement(ctx, id)
}
