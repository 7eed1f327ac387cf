package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/embershop/storefront/internal/domain/address"
	"github.com/embershop/storefront/internal/domain/payment"
	"github.com/embershop/storefront/internal/domain/product"
)

// Sentinel errors for checkout validation.
var (
	ErrEmptyItems         = errors.New("items required")
	ErrAddressRequired    = errors.New("shipping address is required")
	ErrPaymentRequired    = errors.New("payment is required")
	ErrAddressNotOwned    = errors.New("shipping address does not belong to user")
	ErrPaymentNotOwned    = errors.New("payment does not belong to user")
	ErrPaymentAlreadyUsed = errors.New("payment is already linked to an order")
)

// ProductNotFoundError names the cart line whose product does not exist.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// RequestItem is a cart line as submitted by the client: product and
// quantity only. Any client-side price is ignored.
type RequestItem struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderRequest holds the input for placing an order. UserID comes from
// the verified session token, never from the request body.
type PlaceOrderRequest struct {
	UserID            int64
	ShippingAddressID int64
	PaymentID         int64
	Items             []RequestItem
}

// PlacedOrder holds the outcome of a successful checkout.
type PlacedOrder struct {
	OrderID int64
	Total   decimal.Decimal
}

// Service orchestrates checkout: it validates ownership of the shipping
// address and payment, prices the cart from the catalog, and persists the
// order, its line items, and the payment link atomically.
type Service struct {
	products  product.Repository
	addresses address.Repository
	payments  payment.Repository
	orders    Repository
}

// NewService creates a checkout Service with the required domain dependencies.
func NewService(
	products product.Repository,
	addresses address.Repository,
	payments payment.Repository,
	orders Repository,
) *Service {
	return &Service{
		products:  products,
		addresses: addresses,
		payments:  payments,
		orders:    orders,
	}
}

// PlaceOrder runs the checkout sequence. All validation and pricing happens
// before the first write; the write itself is a single transaction in the
// order repository, so a failure at any point leaves no partial rows behind.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlacedOrder, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if req.ShippingAddressID == 0 {
		return nil, ErrAddressRequired
	}
	if req.PaymentID == 0 {
		return nil, ErrPaymentRequired
	}

	// Validate quantities and collect product IDs.
	ids := make([]int64, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	// The shipping address and payment must exist and belong to the
	// ordering user. A payment already linked to an order is rejected so
	// a ledger entry funds exactly one order.
	addr, err := s.addresses.GetByID(ctx, req.ShippingAddressID)
	if err != nil {
		return nil, errors.Wrap(err, "get shipping address")
	}
	if addr.UserID != req.UserID {
		return nil, ErrAddressNotOwned
	}

	pay, err := s.payments.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, errors.Wrap(err, "get payment")
	}
	if pay.UserID != req.UserID {
		return nil, ErrPaymentNotOwned
	}
	if pay.OrderID != nil {
		return nil, ErrPaymentAlreadyUsed
	}

	// Batch fetch every product in one query; a missing ID fails checkout
	// before anything is written.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}

	priceByID := make(map[int64]decimal.Decimal, len(fetched))
	for _, p := range fetched {
		priceByID[p.ID] = p.Price
	}

	// Price each line from the catalog and accumulate the total.
	items := make([]Item, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		price, ok := priceByID[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		items[i] = Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total = total.Round(2)

	o := &Order{
		UserID:            req.UserID,
		ShippingAddressID: req.ShippingAddressID,
		Total:             total,
	}
	orderID, err := s.orders.CreateWithItems(ctx, o, items, req.PaymentID)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return &PlacedOrder{
		OrderID: orderID,
		Total:   total,
	}, nil
}

// ListForUser returns the user's order history, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Summary, error) {
	summaries, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return summaries, nil
}
