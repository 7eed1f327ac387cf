package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/embershop/storefront/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (user_id, shipping_address_id, total_amount)
		VALUES ($1, $2, $3)
		RETURNING id`

	createOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)`

	linkPaymentSQL = `UPDATE payments SET order_id = $1
		WHERE id = $2 AND order_id IS NULL`

	listOrdersByUserSQL = `SELECT
			o.id, o.total_amount, o.created_at,
			a.street_address, a.city, a.country,
			p.payment_method, p.amount
		FROM orders o
		JOIN addresses a ON o.shipping_address_id = a.id
		JOIN payments p ON p.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateWithItems writes the order row, its line items, and the
// payments.order_id link in one transaction. A failure at any step rolls
// everything back: there is no partial order, no orphaned items, and the
// payment stays unlinked and reusable.
func (r *OrderRepository) CreateWithItems(ctx context.Context, o *order.Order, items []order.Item, paymentID int64) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID int64
	err = tx.QueryRow(ctx, createOrderSQL, o.UserID, o.ShippingAddressID, o.Total).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("creating order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(createOrderItemSQL, orderID, item.ProductID, item.Quantity, item.Price)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("creating order items for order %d: %w", orderID, err)
	}

	// The order_id IS NULL guard makes the link exclusive even under
	// concurrent checkouts reusing the same payment: the second UPDATE
	// matches zero rows and the whole transaction rolls back.
	tag, err := tx.Exec(ctx, linkPaymentSQL, orderID, paymentID)
	if err != nil {
		return 0, fmt.Errorf("linking payment %d to order %d: %w", paymentID, orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("linking payment %d to order %d: %w", paymentID, orderID, order.ErrPaymentAlreadyUsed)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing order %d: %w", orderID, err)
	}
	return orderID, nil
}

// ListByUser returns the user's order summaries joined with their shipping
// address and payment, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Summary, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Summary, error) {
		var s order.Summary
		err := row.Scan(
			&s.OrderID, &s.Total, &s.CreatedAt,
			&s.StreetAddress, &s.City, &s.Country,
			&s.PaymentMethod, &s.PaymentAmount,
		)
		return s, err
	})
}
