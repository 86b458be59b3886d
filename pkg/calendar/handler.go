package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/barkeep/barkeep/internal/rest"
)

type OccurrenceDTO struct {
	SourceID    int      `json:"sourceId"`
	SourceType  string   `json:"sourceType"`
	SpecialType string   `json:"specialType,omitempty"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	IsAllDay    bool     `json:"isAllDay"`
	IsRecurring bool     `json:"isRecurring"`
	Tags        []string `json:"tags,omitempty"`
	VenueArea   string   `json:"venueArea,omitempty"`
}

type DayOccurrencesDTO struct {
	Date        string          `json:"date"`
	Occurrences []OccurrenceDTO `json:"occurrences"`
}

type EventDTO struct {
	ID             int      `json:"id,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	StartDateTime  string   `json:"startDateTime"`
	EndDateTime    string   `json:"endDateTime,omitempty"`
	IsAllDay       bool     `json:"isAllDay"`
	RecurrenceRule string   `json:"recurrenceRule,omitempty"`
	ExceptionDates []string `json:"exceptionDates,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	IsActive       bool     `json:"isActive"`
	VenueArea      string   `json:"venueArea,omitempty"`
}

type SpecialDTO struct {
	ID        int      `json:"id,omitempty"`
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	AppliesOn []string `json:"appliesOn,omitempty"`
	IsActive  bool     `json:"isActive"`
}

type AnnouncementDTO struct {
	ID          int    `json:"id,omitempty"`
	Title       string `json:"title"`
	PublishAt   string `json:"publishAt"`
	ExpiresAt   string `json:"expiresAt"`
	IsPublished bool   `json:"isPublished"`
}

type RescheduleRequest struct {
	OccurrenceDate string `json:"occurrenceDate"`
	Day            string `json:"day"`
	Hour           int    `json:"hour"`
	Minute         int    `json:"minute"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'from' parameter", "Must be in RFC3339 format")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'to' parameter", "Must be in RFC3339 format")
		return
	}
	mode := ViewMode(r.URL.Query().Get("mode"))
	switch mode {
	case ViewDay, ViewWeek, ViewMonth:
	case "":
		mode = ViewMonth
	default:
		writeError(w, http.StatusBadRequest, "Invalid 'mode' parameter", "Must be day, week, or month")
		return
	}

	days, err := h.service.GetView(r.Context(), from, to, mode)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, "Invalid view range", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]DayOccurrencesDTO, 0, len(days))
	for _, day := range days {
		dto := DayOccurrencesDTO{Date: day.Date.String(), Occurrences: make([]OccurrenceDTO, 0, len(day.Occurrences))}
		for _, o := range day.Occurrences {
			dto.Occurrences = append(dto.Occurrences, occurrenceToDTO(o))
		}
		response = append(response, dto)
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetVisibleHours(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	hours, err := h.service.GetVisibleHours(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(hours); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) RescheduleEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	eventID, err := strconv.Atoi(mux.Vars(r)["eventId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", "")
		return
	}

	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	day, err := ParseDate(req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target day", "Must be in YYYY-MM-DD format")
		return
	}
	occurrenceDate := day
	if req.OccurrenceDate != "" {
		if occurrenceDate, err = ParseDate(req.OccurrenceDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurrence date", "Must be in YYYY-MM-DD format")
			return
		}
	}

	updated, err := h.service.Reschedule(r.Context(), eventID, occurrenceDate, RescheduleTarget{
		Day:    day,
		Hour:   req.Hour,
		Minute: req.Minute,
	})
	if err != nil {
		log.Errorf("failed to reschedule event %d: %v", eventID, err)
		switch {
		case errors.Is(err, ErrEventNotFound):
			writeError(w, http.StatusNotFound, "Event not found", "")
		case errors.Is(err, ErrNotReschedulable):
			writeError(w, http.StatusConflict, "Occurrence cannot be rescheduled", err.Error())
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(eventToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ev, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	stored, err := h.service.CreateEvent(r.Context(), ev)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not create event", err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(*stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["eventId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", "")
		return
	}
	ev, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	ev.ID = id
	updated, err := h.service.UpdateEvent(r.Context(), ev)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "Event not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(eventToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["eventId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", "")
		return
	}
	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateSpecial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sp, ok := decodeSpecial(w, r)
	if !ok {
		return
	}
	stored, err := h.service.CreateSpecial(r.Context(), sp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not create special", err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(specialToDTO(*stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateSpecial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["specialId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid special id", "")
		return
	}
	sp, ok := decodeSpecial(w, r)
	if !ok {
		return
	}
	sp.ID = id
	updated, err := h.service.UpdateSpecial(r.Context(), sp)
	if err != nil {
		if errors.Is(err, ErrSpecialNotFound) {
			writeError(w, http.StatusNotFound, "Special not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(specialToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteSpecial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["specialId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid special id", "")
		return
	}
	if err := h.service.DeleteSpecial(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	an, ok := decodeAnnouncement(w, r)
	if !ok {
		return
	}
	stored, err := h.service.CreateAnnouncement(r.Context(), an)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not create announcement", err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(announcementToDTO(*stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["announcementId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid announcement id", "")
		return
	}
	an, ok := decodeAnnouncement(w, r)
	if !ok {
		return
	}
	an.ID = id
	updated, err := h.service.UpdateAnnouncement(r.Context(), an)
	if err != nil {
		if errors.Is(err, ErrAnnouncementNotFound) {
			writeError(w, http.StatusNotFound, "Announcement not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(announcementToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["announcementId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid announcement id", "")
		return
	}
	if err := h.service.DeleteAnnouncement(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (Event, bool) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return Event{}, false
	}
	start, err := time.Parse(time.RFC3339, dto.StartDateTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start time format", "Start time must be in RFC3339 format")
		return Event{}, false
	}
	var end time.Time
	if dto.EndDateTime != "" {
		if end, err = time.Parse(time.RFC3339, dto.EndDateTime); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end time format", "End time must be in RFC3339 format")
			return Event{}, false
		}
	}
	for _, d := range dto.ExceptionDates {
		if _, err := ParseDate(d); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid exception date", "Exception dates must be in YYYY-MM-DD format")
			return Event{}, false
		}
	}
	return Event{
		ID:             dto.ID,
		Title:          dto.Title,
		Description:    dto.Description,
		StartTime:      start,
		EndTime:        end,
		AllDay:         dto.IsAllDay,
		RecurrenceRule: dto.RecurrenceRule,
		ExceptionDates: dto.ExceptionDates,
		Tags:           dto.Tags,
		Active:         dto.IsActive,
		VenueArea:      dto.VenueArea,
	}, true
}

func decodeSpecial(w http.ResponseWriter, r *http.Request) (Special, bool) {
	var dto SpecialDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return Special{}, false
	}
	sp := Special{
		ID:     dto.ID,
		Title:  dto.Title,
		Type:   SpecialType(dto.Type),
		Active: dto.IsActive,
	}
	var err error
	if dto.StartDate != "" {
		if sp.StartDate, err = ParseDate(dto.StartDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start date", "Must be in YYYY-MM-DD format")
			return Special{}, false
		}
	}
	if dto.EndDate != "" {
		if sp.EndDate, err = ParseDate(dto.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end date", "Must be in YYYY-MM-DD format")
			return Special{}, false
		}
	}
	for _, name := range dto.AppliesOn {
		wd, ok := weekdayFromName(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid weekday name", name)
			return Special{}, false
		}
		sp.Weekdays = append(sp.Weekdays, wd)
	}
	return sp, true
}

func decodeAnnouncement(w http.ResponseWriter, r *http.Request) (Announcement, bool) {
	var dto AnnouncementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return Announcement{}, false
	}
	publishAt, err := time.Parse(time.RFC3339, dto.PublishAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid publish time format", "Must be in RFC3339 format")
		return Announcement{}, false
	}
	expiresAt, err := time.Parse(time.RFC3339, dto.ExpiresAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expiry time format", "Must be in RFC3339 format")
		return Announcement{}, false
	}
	return Announcement{
		ID:        dto.ID,
		Title:     dto.Title,
		PublishAt: publishAt,
		ExpiresAt: expiresAt,
		Published: dto.IsPublished,
	}, true
}

func occurrenceToDTO(o Occurrence) OccurrenceDTO {
	dto := OccurrenceDTO{
		SourceID:    o.SourceID,
		SourceType:  string(o.SourceType),
		SpecialType: string(o.SpecialType),
		Title:       o.Title,
		Date:        o.DisplayDate.String(),
		Start:       o.Start.Format(time.RFC3339),
		IsAllDay:    o.AllDay,
		IsRecurring: o.Recurring,
		Tags:        o.Tags,
		VenueArea:   o.VenueArea,
	}
	if !o.End.IsZero() {
		dto.End = o.End.Format(time.RFC3339)
	}
	return dto
}

func eventToDTO(ev Event) EventDTO {
	dto := EventDTO{
		ID:             ev.ID,
		Title:          ev.Title,
		Description:    ev.Description,
		StartDateTime:  ev.StartTime.Format(time.RFC3339),
		IsAllDay:       ev.AllDay,
		RecurrenceRule: ev.RecurrenceRule,
		ExceptionDates: ev.ExceptionDates,
		Tags:           ev.Tags,
		IsActive:       ev.Active,
		VenueArea:      ev.VenueArea,
	}
	if !ev.EndTime.IsZero() {
		dto.EndDateTime = ev.EndTime.Format(time.RFC3339)
	}
	return dto
}

func specialToDTO(sp Special) SpecialDTO {
	dto := SpecialDTO{
		ID:       sp.ID,
		Title:    sp.Title,
		Type:     string(sp.Type),
		IsActive: sp.Active,
	}
	if !sp.StartDate.IsZero() {
		dto.StartDate = sp.StartDate.String()
	}
	if !sp.EndDate.IsZero() {
		dto.EndDate = sp.EndDate.String()
	}
	for _, wd := range sp.Weekdays {
		dto.AppliesOn = append(dto.AppliesOn, wd.String())
	}
	return dto
}

func announcementToDTO(an Announcement) AnnouncementDTO {
	return AnnouncementDTO{
		ID:          an.ID,
		Title:       an.Title,
		PublishAt:   an.PublishAt.Format(time.RFC3339),
		ExpiresAt:   an.ExpiresAt.Format(time.RFC3339),
		IsPublished: an.Published,
	}
}

func weekdayFromName(name string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String() == name {
			return wd, true
		}
	}
	return 0, false
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
