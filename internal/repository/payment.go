package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/embershop/storefront/internal/domain/payment"
)

const (
	createPaymentSQL = `INSERT INTO payments (user_id, amount, payment_method)
		VALUES ($1, $2, $3)
		RETURNING id`

	getPaymentByIDSQL = `SELECT id, user_id, amount, payment_method, order_id, created_at
		FROM payments WHERE id = $1`
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a payment with a NULL order_id; checkout links it to an
// order later, inside the order transaction.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, createPaymentSQL, p.UserID, p.Amount, p.Method).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating payment for user %d: %w", p.UserID, err)
	}
	return id, nil
}

// GetByID returns a single payment by its identifier.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	var p payment.Payment
	err := r.pool.QueryRow(ctx, getPaymentByIDSQL, id).
		Scan(&p.ID, &p.UserID, &p.Amount, &p.Method, &p.OrderID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("getting payment %d: %w", id, err)
	}
	return &p, nil
}
