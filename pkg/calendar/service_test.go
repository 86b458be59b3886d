package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkeep/barkeep/internal/event_bus"
)

type stubSettings struct {
	visibleHours  *HourRange
	businessHours BusinessHours
	err           error
}

func (s *stubSettings) VisibleHours(ctx context.Context) (*HourRange, error) {
	return s.visibleHours, s.err
}

func (s *stubSettings) BusinessHours(ctx context.Context) (BusinessHours, error) {
	return s.businessHours, s.err
}

func newTestService(t *testing.T, repo *StubRepository, settings *stubSettings) (*Service, *Resolver) {
	t.Helper()
	resolver := newYorkResolver(t)
	expander := NewExpander(resolver)
	aggregator := NewAggregator(resolver, expander)
	selector := NewSelector(DefaultEventCategories(), Limits{Events: 10, Announcements: 5}, Limits{Events: 2, Announcements: 2})
	committer := NewCommitter(resolver, repo, event_bus.NewEventBus())
	return NewService(repo, settings, resolver, aggregator, selector, committer), resolver
}

func TestGetViewMergesAllSources(t *testing.T) {
	ctx := context.Background()
	repo := NewStubRepository()
	service, resolver := newTestService(t, repo, &stubSettings{})

	_, err := service.CreateEvent(ctx, Event{
		Title:          "Trivia Night",
		StartTime:      resolver.AtTime(Date{2024, time.June, 6}, 20, 0, 0),
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=TH",
		Active:         true,
	})
	require.NoError(t, err)
	_, err = service.CreateSpecial(ctx, Special{
		Title:     "Lobster Roll Week",
		Type:      SpecialFood,
		StartDate: Date{2024, time.June, 6},
		EndDate:   Date{2024, time.June, 8},
	})
	require.NoError(t, err)
	_, err = service.CreateAnnouncement(ctx, Announcement{
		Title:     "Patio Open",
		PublishAt: resolver.AtTime(Date{2024, time.June, 6}, 8, 0, 0),
		ExpiresAt: resolver.AtTime(Date{2024, time.June, 6}, 23, 0, 0),
	})
	require.NoError(t, err)

	from := resolver.StartOfDay(Date{2024, time.June, 6})
	to := resolver.AtTime(Date{2024, time.June, 6}, 23, 59, 59)
	days, err := service.GetView(ctx, from, to, ViewDay)
	require.NoError(t, err)

	require.Len(t, days, 1)
	assert.Equal(t, Date{2024, time.June, 6}, days[0].Date)
	var types []SourceType
	for _, o := range days[0].Occurrences {
		types = append(types, o.SourceType)
	}
	assert.Equal(t, []SourceType{SourceEvent, SourceSpecial, SourceAnnouncement}, types)
}

func TestGetViewRejectsInvertedRange(t *testing.T) {
	repo := NewStubRepository()
	service, resolver := newTestService(t, repo, &stubSettings{})

	from := resolver.StartOfDay(Date{2024, time.June, 10})
	_, err := service.GetView(context.Background(), from, from.Add(-time.Hour), ViewDay)

	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGetVisibleHoursFallbackChain(t *testing.T) {
	ctx := context.Background()
	repo := NewStubRepository()

	t.Run("explicit config wins", func(t *testing.T) {
		service, _ := newTestService(t, repo, &stubSettings{
			visibleHours:  &HourRange{StartHour: 16, EndHour: 26},
			businessHours: BusinessHours{time.Monday: {Open: "09:00", Close: "17:00"}},
		})
		hours, err := service.GetVisibleHours(ctx)
		require.NoError(t, err)
		assert.Equal(t, hourSpan(16, 26), hours)
	})

	t.Run("inference from business hours", func(t *testing.T) {
		service, _ := newTestService(t, repo, &stubSettings{
			businessHours: BusinessHours{time.Friday: {Open: "10:00", Close: "02:00"}},
		})
		hours, err := service.GetVisibleHours(ctx)
		require.NoError(t, err)
		assert.Equal(t, hourSpan(8, 26), hours)
	})

	t.Run("settings errors degrade to full day", func(t *testing.T) {
		service, _ := newTestService(t, repo, &stubSettings{err: errors.New("corrupt settings row")})
		hours, err := service.GetVisibleHours(ctx)
		require.NoError(t, err)
		assert.Equal(t, hourSpan(0, 23), hours)
	})
}

func TestRescheduleUnknownEvent(t *testing.T) {
	repo := NewStubRepository()
	service, _ := newTestService(t, repo, &stubSettings{})

	_, err := service.Reschedule(context.Background(), 42, Date{2024, time.June, 10}, RescheduleTarget{Day: Date{2024, time.June, 11}, Hour: 18})

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRescheduleMovesStoredEvent(t *testing.T) {
	ctx := context.Background()
	repo := NewStubRepository()
	service, resolver := newTestService(t, repo, &stubSettings{})

	created, err := service.CreateEvent(ctx, Event{
		Title:     "Wine Dinner",
		StartTime: resolver.AtTime(Date{2024, time.June, 10}, 19, 0, 0),
		Active:    true,
	})
	require.NoError(t, err)

	updated, err := service.Reschedule(ctx, created.ID, Date{2024, time.June, 10}, RescheduleTarget{Day: Date{2024, time.June, 12}, Hour: 18, Minute: 15})
	require.NoError(t, err)

	assert.Equal(t, WallClock{2024, time.June, 12, 18, 30, 0}, resolver.ToWallClock(updated.StartTime))

	stored, err := repo.FindEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.StartTime, stored.StartTime)
}

func TestCreateSpecialValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewStubRepository()
	service, _ := newTestService(t, repo, &stubSettings{})

	_, err := service.CreateSpecial(ctx, Special{Title: "Nameless", Type: "dessert"})
	assert.Error(t, err)

	_, err = service.CreateSpecial(ctx, Special{Title: "Rangeless Food", Type: SpecialFood})
	assert.Error(t, err)

	_, err = service.CreateSpecial(ctx, Special{Title: "Drink Without Schedule", Type: SpecialDrink})
	assert.Error(t, err)

	_, err = service.CreateSpecial(ctx, Special{Title: "Friday Drinks", Type: SpecialDrink, Weekdays: []time.Weekday{time.Friday}})
	assert.NoError(t, err)
}

func TestCreateAnnouncementValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewStubRepository()
	service, resolver := newTestService(t, repo, &stubSettings{})

	publish := resolver.AtTime(Date{2024, time.June, 10}, 9, 0, 0)

	_, err := service.CreateAnnouncement(ctx, Announcement{Title: "Backwards", PublishAt: publish, ExpiresAt: publish.Add(-time.Hour)})
	assert.Error(t, err)

	_, err = service.CreateAnnouncement(ctx, Announcement{Title: "Valid", PublishAt: publish, ExpiresAt: publish.Add(48 * time.Hour)})
	assert.NoError(t, err)
}
