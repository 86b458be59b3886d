package payroll

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/barkeep/barkeep/internal/rest"
	log "github.com/sirupsen/logrus"
)

type SummaryDTO struct {
	StaffID         int       `json:"staffId"`
	StaffName       string    `json:"staffName"`
	HourlyWageCents int       `json:"hourlyWageCents"`
	RegularMinutes  int       `json:"regularMinutes"`
	OvertimeMinutes int       `json:"overtimeMinutes"`
	GrossCents      int       `json:"grossCents"`
	PeriodStart     time.Time `json:"periodStart"`
	PeriodEnd       time.Time `json:"periodEnd"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetPeriodSummaries(w http.ResponseWriter, r *http.Request) {
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

	summaries, err := h.service.GetPeriodSummaries(r.Context(), from, to)
	if err != nil {
		log.Errorf("Error computing payroll summaries: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dtos := make([]SummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, SummaryDTO{
			StaffID:         s.StaffID,
			StaffName:       s.StaffName,
			HourlyWageCents: s.HourlyWageCents,
			RegularMinutes:  s.RegularMinutes,
			OvertimeMinutes: s.OvertimeMinutes,
			GrossCents:      s.GrossCents,
			PeriodStart:     s.PeriodStart,
			PeriodEnd:       s.PeriodEnd,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("Error encoding payroll response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		log.Errorf("Error encoding error response: %v", err)
	}
}
