package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	nextID        int
	Events        map[int]Event
	Specials      map[int]Special
	Announcements map[int]Announcement

	FailUpdates bool
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		Events:        map[int]Event{},
		Specials:      map[int]Special{},
		Announcements: map[int]Announcement{},
	}
}

func (s *StubRepository) FindEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	var events []Event
	for _, ev := range s.Events {
		if ev.Recurring() || (!ev.StartTime.After(to) && !ev.StartTime.Before(from)) {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (s *StubRepository) FindEvent(ctx context.Context, id int) (*Event, error) {
	ev, ok := s.Events[id]
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (s *StubRepository) StoreEvent(ctx context.Context, ev Event) (int, error) {
	s.nextID++
	ev.ID = s.nextID
	s.Events[ev.ID] = ev
	return ev.ID, nil
}

func (s *StubRepository) UpdateEvent(ctx context.Context, ev Event) (*Event, error) {
	if s.FailUpdates {
		return nil, fmt.Errorf("stub update failure")
	}
	if _, ok := s.Events[ev.ID]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrEventNotFound, ev.ID)
	}
	s.Events[ev.ID] = ev
	return &ev, nil
}

func (s *StubRepository) DeleteEvent(ctx context.Context, id int) error {
	delete(s.Events, id)
	return nil
}

func (s *StubRepository) FindSpecials(ctx context.Context) ([]Special, error) {
	var specials []Special
	for _, sp := range s.Specials {
		specials = append(specials, sp)
	}
	sort.Slice(specials, func(i, j int) bool { return specials[i].ID < specials[j].ID })
	return specials, nil
}

func (s *StubRepository) StoreSpecial(ctx context.Context, sp Special) (int, error) {
	s.nextID++
	sp.ID = s.nextID
	s.Specials[sp.ID] = sp
	return sp.ID, nil
}

func (s *StubRepository) UpdateSpecial(ctx context.Context, sp Special) (*Special, error) {
	if _, ok := s.Specials[sp.ID]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrSpecialNotFound, sp.ID)
	}
	s.Specials[sp.ID] = sp
	return &sp, nil
}

func (s *StubRepository) DeleteSpecial(ctx context.Context, id int) error {
	delete(s.Specials, id)
	return nil
}

func (s *StubRepository) FindAnnouncements(ctx context.Context, from, to time.Time) ([]Announcement, error) {
	var announcements []Announcement
	for _, an := range s.Announcements {
		if !an.PublishAt.After(to) && !an.ExpiresAt.Before(from) {
			announcements = append(announcements, an)
		}
	}
	sort.Slice(announcements, func(i, j int) bool { return announcements[i].ID < announcements[j].ID })
	return announcements, nil
}

func (s *StubRepository) StoreAnnouncement(ctx context.Context, an Announcement) (int, error) {
	s.nextID++
	an.ID = s.nextID
	s.Announcements[an.ID] = an
	return an.ID, nil
}

func (s *StubRepository) UpdateAnnouncement(ctx context.Context, an Announcement) (*Announcement, error) {
	if _, ok := s.Announcements[an.ID]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrAnnouncementNotFound, an.ID)
	}
	s.Announcements[an.ID] = an
	return &an, nil
}

func (s *StubRepository) DeleteAnnouncement(ctx context.Context, id int) error {
	delete(s.Announcements, id)
	return nil
}
