package purchase

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusDraft     OrderStatus = "draft"
	StatusSubmitted OrderStatus = "submitted"
	StatusReceived  OrderStatus = "received"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusReceived:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from its current status
// to the target. Orders only move forward: draft to submitted to received.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusSubmitted
	case StatusSubmitted:
		return target == StatusReceived
	}
	return false
}

type LineItem struct {
	Name          string
	Quantity      int
	UnitCostCents int
}

func (li LineItem) TotalCents() int {
	return li.Quantity * li.UnitCostCents
}

// Order is a supplier purchase order. Contents are editable only while the
// order is a draft; after submission only the status may change.
type Order struct {
	ID          int
	UID         uuid.UUID
	Supplier    string
	Status      OrderStatus
	LineItems   []LineItem
	Notes       string
	CreatedAt   time.Time
	SubmittedAt time.Time
	ReceivedAt  time.Time
}

func (o Order) TotalCents() int {
	total := 0
	for _, li := range o.LineItems {
		total += li.TotalCents()
	}
	return total
}
