package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*Handler, *Resolver) {
	t.Helper()
	repo := NewStubRepository()
	service, resolver := newTestService(t, repo, &stubSettings{})
	return NewHandler(service), resolver
}

func postJSON(t *testing.T, handler http.HandlerFunc, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(encoded))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandlerCreateAndViewEvents(t *testing.T) {
	handler, _ := setupHandlerTest(t)

	created := postJSON(t, handler.CreateEvent, "/api/calendar/event", EventDTO{
		Title:          "Trivia Night",
		StartDateTime:  "2024-06-06T20:00:00-04:00",
		EndDateTime:    "2024-06-06T22:00:00-04:00",
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=TH",
		IsActive:       true,
	})
	require.Equal(t, http.StatusCreated, created.Code)

	req := httptest.NewRequest(http.MethodGet,
		"/api/calendar/view?from=2024-06-01T00:00:00-04:00&to=2024-06-30T23:59:59-04:00&mode=month", nil)
	w := httptest.NewRecorder()
	handler.GetView(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var days []DayOccurrencesDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&days))
	// Thursdays June 6, 13, 20, 27.
	require.Len(t, days, 4)
	for _, day := range days {
		require.Len(t, day.Occurrences, 1)
		assert.Equal(t, "Trivia Night", day.Occurrences[0].Title)
		assert.True(t, day.Occurrences[0].IsRecurring)
	}
}

func TestHandlerGetViewRejectsBadParameters(t *testing.T) {
	handler, _ := setupHandlerTest(t)

	for name, url := range map[string]string{
		"missing from": "/api/calendar/view?to=2024-06-30T23:59:59-04:00",
		"bad to":       "/api/calendar/view?from=2024-06-01T00:00:00-04:00&to=tomorrow",
		"bad mode":     "/api/calendar/view?from=2024-06-01T00:00:00-04:00&to=2024-06-30T23:59:59-04:00&mode=decade",
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.GetView(w, httptest.NewRequest(http.MethodGet, url, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandlerReschedule(t *testing.T) {
	handler, resolver := setupHandlerTest(t)

	created := postJSON(t, handler.CreateEvent, "/api/calendar/event", EventDTO{
		Title:         "Wine Dinner",
		StartDateTime: "2024-06-10T19:00:00-04:00",
		EndDateTime:   "2024-06-10T20:30:00-04:00",
		IsActive:      true,
	})
	require.Equal(t, http.StatusCreated, created.Code)
	var createdEvent EventDTO
	require.NoError(t, json.NewDecoder(created.Body).Decode(&createdEvent))

	body, err := json.Marshal(RescheduleRequest{
		OccurrenceDate: "2024-06-10",
		Day:            "2024-06-12",
		Hour:           14,
		Minute:         37,
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch,
		fmt.Sprintf("/api/calendar/event/%d/schedule", createdEvent.ID), bytes.NewBuffer(body))
	req = mux.SetURLVars(req, map[string]string{"eventId": fmt.Sprint(createdEvent.ID)})
	w := httptest.NewRecorder()
	handler.RescheduleEvent(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	start, err := time.Parse(time.RFC3339, updated.StartDateTime)
	require.NoError(t, err)
	assert.Equal(t, WallClock{2024, time.June, 12, 14, 30, 0}, resolver.ToWallClock(start))
}

func TestHandlerRescheduleUnknownEvent(t *testing.T) {
	handler, _ := setupHandlerTest(t)

	body, err := json.Marshal(RescheduleRequest{Day: "2024-06-12", Hour: 14})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/api/calendar/event/99/schedule", bytes.NewBuffer(body))
	req = mux.SetURLVars(req, map[string]string{"eventId": "99"})
	w := httptest.NewRecorder()
	handler.RescheduleEvent(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerCreateSpecialRejectsUnknownType(t *testing.T) {
	handler, _ := setupHandlerTest(t)

	w := postJSON(t, handler.CreateSpecial, "/api/calendar/special", SpecialDTO{
		Title: "Mystery",
		Type:  "dessert",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
