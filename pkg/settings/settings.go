package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/barkeep/barkeep/pkg/calendar"
)

const (
	KeyVisibleHours  = "calendar.visible_hours"
	KeyBusinessHours = "business.hours"
)

// Service reads and writes the key-value settings the rest of the
// application consumes. Unreadable values never fail a read: the calendar
// falls back to business-hours inference and from there to the full-day
// default, so a corrupt row degrades display instead of breaking it.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// VisibleHours returns the explicit visible-hours setting, or nil when unset
// or malformed.
func (s *Service) VisibleHours(ctx context.Context) (*calendar.HourRange, error) {
	raw, found, err := s.repo.Get(ctx, KeyVisibleHours)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", KeyVisibleHours, err)
	}
	if !found {
		return nil, nil
	}
	var hours calendar.HourRange
	if err := json.Unmarshal([]byte(raw), &hours); err != nil {
		log.Warnf("malformed %s value %q: %v", KeyVisibleHours, raw, err)
		return nil, nil
	}
	return &hours, nil
}

func (s *Service) SetVisibleHours(ctx context.Context, hours calendar.HourRange) error {
	if !hours.Valid() {
		return fmt.Errorf("invalid visible hours %d-%d", hours.StartHour, hours.EndHour)
	}
	encoded, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("failed to encode visible hours: %w", err)
	}
	return s.repo.Set(ctx, KeyVisibleHours, string(encoded))
}

// BusinessHours returns the weekly opening hours, or nil when unset or
// malformed. The stored value maps lowercase weekday names to open/close
// times.
func (s *Service) BusinessHours(ctx context.Context) (calendar.BusinessHours, error) {
	raw, found, err := s.repo.Get(ctx, KeyBusinessHours)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", KeyBusinessHours, err)
	}
	if !found {
		return nil, nil
	}
	var byName map[string]calendar.DayHours
	if err := json.Unmarshal([]byte(raw), &byName); err != nil {
		log.Warnf("malformed %s value %q: %v", KeyBusinessHours, raw, err)
		return nil, nil
	}

	hours := calendar.BusinessHours{}
	for name, day := range byName {
		wd, ok := weekdayByName(name)
		if !ok {
			log.Warnf("unknown weekday %q in %s, skipping", name, KeyBusinessHours)
			continue
		}
		hours[wd] = day
	}
	return hours, nil
}

func (s *Service) SetBusinessHours(ctx context.Context, hours calendar.BusinessHours) error {
	byName := make(map[string]calendar.DayHours, len(hours))
	for wd, day := range hours {
		byName[strings.ToLower(wd.String())] = day
	}
	encoded, err := json.Marshal(byName)
	if err != nil {
		return fmt.Errorf("failed to encode business hours: %w", err)
	}
	return s.repo.Set(ctx, KeyBusinessHours, string(encoded))
}

func weekdayByName(name string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, true
		}
	}
	return 0, false
}
