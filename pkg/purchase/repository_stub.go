package purchase

import (
	"context"
	"sort"
)

// StubRepository is an in-memory Repository used by tests.
type StubRepository struct {
	Orders map[int]Order
	nextID int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{Orders: map[int]Order{}}
}

func (r *StubRepository) Get(_ context.Context, id int) (*Order, error) {
	order, ok := r.Orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (r *StubRepository) GetAll(_ context.Context, status OrderStatus) ([]Order, error) {
	var orders []Order
	for _, order := range r.Orders {
		if status == "" || order.Status == status {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *StubRepository) Store(_ context.Context, order Order) (int, error) {
	r.nextID++
	order.ID = r.nextID
	r.Orders[order.ID] = order
	return order.ID, nil
}

func (r *StubRepository) Update(_ context.Context, order Order) error {
	r.Orders[order.ID] = order
	return nil
}

func (r *StubRepository) Delete(_ context.Context, id int) error {
	delete(r.Orders, id)
	return nil
}
