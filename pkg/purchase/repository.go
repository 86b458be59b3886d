package purchase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Get(ctx context.Context, id int) (*Order, error)
	GetAll(ctx context.Context, status OrderStatus) ([]Order, error)
	Store(ctx context.Context, order Order) (int, error)
	Update(ctx context.Context, order Order) error
	Delete(ctx context.Context, id int) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const orderColumns = "id, uid, supplier, status, line_items, notes, created_at, submitted_at, received_at"

func (r *RepositoryImpl) Get(ctx context.Context, id int) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM purchase_order WHERE id = $1", id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase order %d: %w", id, err)
	}
	return order, nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, status OrderStatus) ([]Order, error) {
	query := "SELECT " + orderColumns + " FROM purchase_order"
	var args []any
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *RepositoryImpl) Store(ctx context.Context, order Order) (int, error) {
	items, err := json.Marshal(order.LineItems)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal line items: %w", err)
	}
	var id int
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO purchase_order (uid, supplier, status, line_items, notes, created_at, submitted_at, received_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		order.UID.String(), order.Supplier, string(order.Status), string(items), order.Notes,
		order.CreatedAt, nullTime(order.SubmittedAt), nullTime(order.ReceivedAt)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert purchase order: %w", err)
	}
	return id, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, order Order) error {
	items, err := json.Marshal(order.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE purchase_order
		 SET supplier = $1, status = $2, line_items = $3, notes = $4, submitted_at = $5, received_at = $6
		 WHERE id = $7`,
		order.Supplier, string(order.Status), string(items), order.Notes,
		nullTime(order.SubmittedAt), nullTime(order.ReceivedAt), order.ID)
	if err != nil {
		return fmt.Errorf("failed to update purchase order %d: %w", order.ID, err)
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM purchase_order WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		order       Order
		uid         string
		status      string
		items       string
		submittedAt sql.NullTime
		receivedAt  sql.NullTime
	)
	err := row.Scan(&order.ID, &uid, &order.Supplier, &status, &items, &order.Notes,
		&order.CreatedAt, &submittedAt, &receivedAt)
	if err != nil {
		return nil, err
	}
	order.UID, err = uuid.Parse(uid)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase order uid %q: %w", uid, err)
	}
	order.Status = OrderStatus(status)
	if items != "" {
		if err := json.Unmarshal([]byte(items), &order.LineItems); err != nil {
			return nil, fmt.Errorf("invalid line items for purchase order %d: %w", order.ID, err)
		}
	}
	if submittedAt.Valid {
		order.SubmittedAt = submittedAt.Time
	}
	if receivedAt.Valid {
		order.ReceivedAt = receivedAt.Time
	}
	return &order, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
