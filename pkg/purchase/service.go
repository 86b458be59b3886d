package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barkeep/barkeep/internal/utils"
)

var (
	ErrOrderNotFound     = errors.New("purchase order not found")
	ErrInvalidTransition = errors.New("invalid purchase order status transition")
	ErrOrderNotEditable  = errors.New("purchase order can only be edited while in draft")
	ErrOrderNotDeletable = errors.New("only draft purchase orders can be deleted")
)

type Service struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

func (s *Service) CreateOrder(ctx context.Context, order Order) (*Order, error) {
	if order.Supplier == "" {
		return nil, errors.New("supplier is required")
	}
	if err := validateLineItems(order.LineItems); err != nil {
		return nil, err
	}
	order.UID = uuid.New()
	order.Status = StatusDraft
	order.CreatedAt = s.clock.Now()
	order.SubmittedAt = time.Time{}
	order.ReceivedAt = time.Time{}

	id, err := s.repo.Store(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to store purchase order: %w", err)
	}
	order.ID = id
	return &order, nil
}

func (s *Service) GetOrders(ctx context.Context, status OrderStatus) ([]Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown purchase order status %q", status)
	}
	return s.repo.GetAll(ctx, status)
}

func (s *Service) GetOrder(ctx context.Context, id int) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase order %d: %w", id, err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	return order, nil
}

// UpdateOrder replaces a draft order's contents. Status and timestamps are
// managed through TransitionOrder, not here.
func (s *Service) UpdateOrder(ctx context.Context, order Order) (*Order, error) {
	existing, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusDraft {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderNotEditable, order.ID, existing.Status)
	}
	if order.Supplier == "" {
		return nil, errors.New("supplier is required")
	}
	if err := validateLineItems(order.LineItems); err != nil {
		return nil, err
	}
	existing.Supplier = order.Supplier
	existing.LineItems = order.LineItems
	existing.Notes = order.Notes

	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("failed to update purchase order %d: %w", order.ID, err)
	}
	return existing, nil
}

// TransitionOrder advances an order to the target status and stamps the
// transition time.
func (s *Service) TransitionOrder(ctx context.Context, id int, target OrderStatus) (*Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("unknown purchase order status %q", target)
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, target)
	}

	order.Status = target
	switch target {
	case StatusSubmitted:
		order.SubmittedAt = s.clock.Now()
	case StatusReceived:
		order.ReceivedAt = s.clock.Now()
	}

	if err := s.repo.Update(ctx, *order); err != nil {
		return nil, fmt.Errorf("failed to update purchase order %d: %w", id, err)
	}
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int) error {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != StatusDraft {
		return fmt.Errorf("%w: order %d is %s", ErrOrderNotDeletable, id, order.Status)
	}
	return s.repo.Delete(ctx, id)
}

func validateLineItems(items []LineItem) error {
	for i, li := range items {
		if li.Name == "" {
			return fmt.Errorf("line item %d is missing a name", i+1)
		}
		if li.Quantity <= 0 {
			return fmt.Errorf("line item %q must have a positive quantity", li.Name)
		}
		if li.UnitCostCents < 0 {
			return fmt.Errorf("line item %q cannot have a negative unit cost", li.Name)
		}
	}
	return nil
}
