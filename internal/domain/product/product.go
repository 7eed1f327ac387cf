package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item. The catalog is the authoritative source
// of prices: checkout always re-derives totals from it and never trusts
// client-cached prices.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	Category string
}

// Filter narrows a catalog listing. Predicates combine with AND; nil or
// empty fields are no-ops.
type Filter struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Category string
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}
