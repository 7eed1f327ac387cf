package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a placed order with its server-computed total. The total always
// equals the sum of the line items' snapshotted price × quantity.
type Order struct {
	ID                int64
	UserID            int64
	ShippingAddressID int64
	Total             decimal.Decimal
	CreatedAt         time.Time
}

// Item is a single order line. Price is the catalog price snapshotted at
// order time.
type Item struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// Summary is an order joined with its shipping address and linked payment,
// as returned by the order history listing.
type Summary struct {
	OrderID       int64
	Total         decimal.Decimal
	CreatedAt     time.Time
	StreetAddress string
	City          string
	Country       string
	PaymentMethod string
	PaymentAmount decimal.Decimal
}

// Repository defines persistence operations for orders.
type Repository interface {
	// CreateWithItems persists the order, its line items, and the
	// payments.order_id link as a single transaction. On any failure
	// nothing is written. It returns the assigned order ID.
	CreateWithItems(ctx context.Context, o *Order, items []Item, paymentID int64) (int64, error)
	// ListByUser returns the user's order summaries, newest first.
	ListByUser(ctx context.Context, userID int64) ([]Summary, error)
}
