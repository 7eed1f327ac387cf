package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for payment operations.
var (
	// ErrNotFound is returned when a referenced payment does not exist.
	ErrNotFound = errors.New("payment not found")
	// ErrAmountRequired is returned when the amount is absent or not positive.
	ErrAmountRequired = errors.New("payment amount is required")
	// ErrMethodRequired is returned when the payment method is absent.
	ErrMethodRequired = errors.New("payment method is required")
)

// Payment is a ledger entry created before its order exists; OrderID stays
// nil until checkout links it inside the order transaction. The amount is
// client-reported and is not cross-checked against the catalog: the order's
// total_amount is the authoritative figure for billing.
type Payment struct {
	ID        int64
	UserID    int64
	Amount    decimal.Decimal
	Method    string
	OrderID   *int64
	CreatedAt time.Time
}

// Validate checks the required fields of a payment draft.
func (p *Payment) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrAmountRequired
	}
	if p.Method == "" {
		return ErrMethodRequired
	}
	return nil
}

// Repository defines persistence operations for payments.
type Repository interface {
	// Create inserts a payment with a NULL order_id and returns its ID.
	Create(ctx context.Context, p *Payment) (int64, error)
	// GetByID returns a payment regardless of owner; callers check UserID.
	GetByID(ctx context.Context, id int64) (*Payment, error)
}
