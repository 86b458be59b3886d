package settings

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/barkeep/barkeep/internal/rest"
	"github.com/barkeep/barkeep/pkg/calendar"
)

type BusinessHoursDTO map[string]calendar.DayHours

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetVisibleHours(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	hours, err := h.service.VisibleHours(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if hours == nil {
		http.Error(w, "No visible hours configured", http.StatusNotFound)
		return
	}
	if err := json.NewEncoder(w).Encode(hours); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SetVisibleHours(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var hours calendar.HourRange
	if err := json.NewDecoder(r.Body).Decode(&hours); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}
	if err := h.service.SetVisibleHours(r.Context(), hours); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Could not store visible hours", Details: err.Error()})
		return
	}
	if err := json.NewEncoder(w).Encode(hours); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetBusinessHours(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	hours, err := h.service.BusinessHours(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	response := BusinessHoursDTO{}
	for wd, day := range hours {
		response[strings.ToLower(wd.String())] = day
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SetBusinessHours(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto BusinessHoursDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	hours := calendar.BusinessHours{}
	for name, day := range dto {
		wd, ok := weekdayByName(name)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Unknown weekday", Details: name})
			return
		}
		hours[wd] = day
	}
	if err := h.service.SetBusinessHours(r.Context(), hours); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
