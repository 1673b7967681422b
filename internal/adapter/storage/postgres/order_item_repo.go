package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderItemColumns = `id, order_id, seller_id, product_id, quantity, unit_price, delivery_status, created_at, updated_at`

// OrderItemRepo implements ports.OrderItemRepository.
type OrderItemRepo struct {
	pool Pool
}

// NewOrderItemRepo creates a new OrderItemRepo.
func NewOrderItemRepo(pool Pool) *OrderItemRepo {
	return &OrderItemRepo{pool: pool}
}

// GetByID fetches an order item by UUID.
func (r *OrderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE id = $1`

	item := &domain.OrderItem{}
	err := scanOrderItem(r.pool.QueryRow(ctx, query, id), item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}
	return item, nil
}

// UpdateStatus writes the new delivery status and timestamp in one statement.
func (r *OrderItemRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus, updatedAt time.Time) error {
	query := `UPDATE order_items SET delivery_status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update order item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order item not found: %s", id)
	}
	return nil
}

// ListBySeller returns the seller's order items, newest first.
func (r *OrderItemRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, status *domain.DeliveryStatus) ([]domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE seller_id = $1`
	args := []any{sellerID}
	if status != nil {
		query += ` AND delivery_status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list seller order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := scanOrderItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}
	return items, nil
}

func scanOrderItem(row pgx.Row, item *domain.OrderItem) error {
	return row.Scan(
		&item.ID, &item.OrderID, &item.SellerID, &item.ProductID,
		&item.Quantity, &item.UnitPrice, &item.DeliveryStatus,
		&item.CreatedAt, &item.UpdatedAt,
	)
}
