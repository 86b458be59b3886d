package staff

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/barkeep/barkeep/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type MemberDTO struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	HourlyWageCents int    `json:"hourlyWageCents"`
	IsActive        bool   `json:"isActive"`
}

type ShiftDTO struct {
	ID        int       `json:"id"`
	StaffID   int       `json:"staffId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Position  string    `json:"position"`
	Notes     string    `json:"notes,omitempty"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	members, err := h.service.GetMembers(r.Context(), includeInactive)
	if err != nil {
		log.Errorf("Error fetching staff members: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch staff members")
		return
	}
	dtos := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, toMemberDTO(m))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	member, ok := decodeMember(w, r)
	if !ok {
		return
	}
	created, err := h.service.CreateMember(r.Context(), member)
	if err != nil {
		log.Errorf("Error creating staff member: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toMemberDTO(*created))
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "staffId")
	if !ok {
		return
	}
	member, ok := decodeMember(w, r)
	if !ok {
		return
	}
	member.ID = id
	updated, err := h.service.UpdateMember(r.Context(), member)
	if err != nil {
		log.Errorf("Error updating staff member %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update staff member")
		return
	}
	writeJSON(w, http.StatusOK, toMemberDTO(*updated))
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "staffId")
	if !ok {
		return
	}
	if err := h.service.DeleteMember(r.Context(), id); err != nil {
		log.Errorf("Error deleting staff member %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete staff member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'from' query parameter")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'to' query parameter")
		return
	}
	shifts, err := h.service.GetShifts(r.Context(), from, to)
	if err != nil {
		log.Errorf("Error fetching shifts: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch shifts")
		return
	}
	dtos := make([]ShiftDTO, 0, len(shifts))
	for _, s := range shifts {
		dtos = append(dtos, toShiftDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ScheduleShift(w http.ResponseWriter, r *http.Request) {
	shift, ok := decodeShift(w, r)
	if !ok {
		return
	}
	created, err := h.service.ScheduleShift(r.Context(), shift)
	if err != nil {
		h.writeShiftError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShiftDTO(*created))
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "shiftId")
	if !ok {
		return
	}
	shift, ok := decodeShift(w, r)
	if !ok {
		return
	}
	shift.ID = id
	updated, err := h.service.UpdateShift(r.Context(), shift)
	if err != nil {
		h.writeShiftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(*updated))
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "shiftId")
	if !ok {
		return
	}
	if err := h.service.DeleteShift(r.Context(), id); err != nil {
		log.Errorf("Error deleting shift %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete shift")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeShiftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrShiftOverlap):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrMemberNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Errorf("Error saving shift: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func decodeMember(w http.ResponseWriter, r *http.Request) (Member, bool) {
	var dto MemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return Member{}, false
	}
	return Member{
		ID:              dto.ID,
		Name:            dto.Name,
		Role:            dto.Role,
		HourlyWageCents: dto.HourlyWageCents,
		Active:          dto.IsActive,
	}, true
}

func decodeShift(w http.ResponseWriter, r *http.Request) (Shift, bool) {
	var dto ShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return Shift{}, false
	}
	return Shift{
		ID:        dto.ID,
		StaffID:   dto.StaffID,
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
		Position:  dto.Position,
		Notes:     dto.Notes,
	}, true
}

func toMemberDTO(m Member) MemberDTO {
	return MemberDTO{
		ID:              m.ID,
		Name:            m.Name,
		Role:            m.Role,
		HourlyWageCents: m.HourlyWageCents,
		IsActive:        m.Active,
	}
}

func toShiftDTO(s Shift) ShiftDTO {
	return ShiftDTO{
		ID:        s.ID,
		StaffID:   s.StaffID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Position:  s.Position,
		Notes:     s.Notes,
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, rest.ErrorResponse{Error: message})
}
