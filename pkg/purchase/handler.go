package purchase

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

type LineItemDTO struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	UnitCostCents int    `json:"unitCostCents"`
}

type OrderDTO struct {
	ID          int           `json:"id"`
	UID         string        `json:"uid"`
	Supplier    string        `json:"supplier"`
	Status      string        `json:"status"`
	LineItems   []LineItemDTO `json:"lineItems"`
	Notes       string        `json:"notes,omitempty"`
	TotalCents  int           `json:"totalCents"`
	CreatedAt   time.Time     `json:"createdAt"`
	SubmittedAt *time.Time    `json:"submittedAt,omitempty"`
	ReceivedAt  *time.Time    `json:"receivedAt,omitempty"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	status := OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.service.GetOrders(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dtos := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, toOrderDTO(order))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(*order))
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := decodeOrder(w, r)
	if !ok {
		return
	}
	created, err := h.service.CreateOrder(r.Context(), order)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(*created))
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, ok := decodeOrder(w, r)
	if !ok {
		return
	}
	order.ID = id
	updated, err := h.service.UpdateOrder(r.Context(), order)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(*updated))
}

func (h *Handler) TransitionOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	updated, err := h.service.TransitionOrder(r.Context(), id, OrderStatus(req.Status))
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(*updated))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.writeOrderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrOrderNotEditable), errors.Is(err, ErrOrderNotDeletable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Errorf("Error handling purchase order request: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func decodeOrder(w http.ResponseWriter, r *http.Request) (Order, bool) {
	var dto OrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return Order{}, false
	}
	items := make([]LineItem, 0, len(dto.LineItems))
	for _, li := range dto.LineItems {
		items = append(items, LineItem{Name: li.Name, Quantity: li.Quantity, UnitCostCents: li.UnitCostCents})
	}
	return Order{
		Supplier:  dto.Supplier,
		LineItems: items,
		Notes:     dto.Notes,
	}, true
}

func toOrderDTO(order Order) OrderDTO {
	items := make([]LineItemDTO, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		items = append(items, LineItemDTO{Name: li.Name, Quantity: li.Quantity, UnitCostCents: li.UnitCostCents})
	}
	dto := OrderDTO{
		ID:         order.ID,
		UID:        order.UID.String(),
		Supplier:   order.Supplier,
		Status:     string(order.Status),
		LineItems:  items,
		Notes:      order.Notes,
		TotalCents: order.TotalCents(),
		CreatedAt:  order.CreatedAt,
	}
	if !order.SubmittedAt.IsZero() {
		submittedAt := order.SubmittedAt
		dto.SubmittedAt = &submittedAt
	}
	if !order.ReceivedAt.IsZero() {
		receivedAt := order.ReceivedAt
		dto.ReceivedAt = &receivedAt
	}
	return dto
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["orderId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid orderId")
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
