package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barkeep/barkeep/pkg/calendar"
)

func TestVisibleHoursRoundTrip(t *testing.T) {
	ctx := context.Background()
	service := NewService(NewStubRepository())

	got, err := service.VisibleHours(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "unset key must read as nil, not an error")

	require.NoError(t, service.SetVisibleHours(ctx, calendar.HourRange{StartHour: 16, EndHour: 26}))

	got, err = service.VisibleHours(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, calendar.HourRange{StartHour: 16, EndHour: 26}, *got)
}

func TestSetVisibleHoursRejectsInvalidRange(t *testing.T) {
	service := NewService(NewStubRepository())

	assert.Error(t, service.SetVisibleHours(context.Background(), calendar.HourRange{StartHour: -1, EndHour: 20}))
	assert.Error(t, service.SetVisibleHours(context.Background(), calendar.HourRange{StartHour: 20, EndHour: 10}))
}

func TestVisibleHoursMalformedValueReadsAsUnset(t *testing.T) {
	repo := NewStubRepository()
	repo.Values[KeyVisibleHours] = "{not json"
	service := NewService(repo)

	got, err := service.VisibleHours(context.Background())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBusinessHoursRoundTrip(t *testing.T) {
	ctx := context.Background()
	service := NewService(NewStubRepository())

	hours := calendar.BusinessHours{
		time.Monday: {Open: "16:00", Close: "23:00"},
		time.Friday: {Open: "11:00", Close: "02:00"},
	}
	require.NoError(t, service.SetBusinessHours(ctx, hours))

	got, err := service.BusinessHours(ctx)
	require.NoError(t, err)
	assert.Equal(t, hours, got)
}

func TestBusinessHoursMalformedValueReadsAsUnset(t *testing.T) {
	repo := NewStubRepository()
	repo.Values[KeyBusinessHours] = `["not","a","map"]`
	service := NewService(repo)

	got, err := service.BusinessHours(context.Background())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBusinessHoursSkipsUnknownWeekdays(t *testing.T) {
	repo := NewStubRepository()
	repo.Values[KeyBusinessHours] = `{"someday":{"open":"10:00","close":"20:00"},"tuesday":{"open":"12:00","close":"22:00"}}`
	service := NewService(repo)

	got, err := service.BusinessHours(context.Background())

	require.NoError(t, err)
	assert.Equal(t, calendar.BusinessHours{time.Tuesday: {Open: "12:00", Close: "22:00"}}, got)
}
