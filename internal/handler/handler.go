// Package handler exposes the storefront HTTP API. Handlers decode JSON,
// delegate to the domain layer, and map domain errors onto the HTTP error
// taxonomy; no business logic lives here.
package handler

import (
	"context"
	"net/http"

	"github.com/embershop/storefront/internal/domain/address"
	"github.com/embershop/storefront/internal/domain/auth"
	"github.com/embershop/storefront/internal/domain/order"
	"github.com/embershop/storefront/internal/domain/payment"
	"github.com/embershop/storefront/internal/domain/product"
	"github.com/embershop/storefront/internal/domain/user"
	"github.com/embershop/storefront/internal/repository"
)

// TableDumper provides raw allow-listed table dumps for the admin endpoint.
type TableDumper interface {
	Dump(ctx context.Context, table string) (*repository.TableDump, error)
}

// Handler holds the domain dependencies for every endpoint.
type Handler struct {
	users     *user.Service
	userRepo  user.Repository
	tokens    *auth.Issuer
	products  product.Repository
	addresses address.Repository
	payments  payment.Repository
	orders    *order.Service
	tables    TableDumper
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	users *user.Service,
	userRepo user.Repository,
	tokens *auth.Issuer,
	products product.Repository,
	addresses address.Repository,
	payments payment.Repository,
	orders *order.Service,
	tables TableDumper,
) *Handler {
	return &Handler{
		users:     users,
		userRepo:  userRepo,
		tokens:    tokens,
		products:  products,
		addresses: addresses,
		payments:  payments,
		orders:    orders,
		tables:    tables,
	}
}

// Routes returns the API route table. Protected endpoints are wrapped with
// the bearer-token middleware; the verified user ID is the only scope key
// they ever use.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("GET /products", h.listProducts)
	mux.HandleFunc("GET /products/{id}", h.getProduct)
	mux.HandleFunc("GET /categories", h.listCategories)

	mux.Handle("GET /users/{userId}", h.requireAuth(h.getUser))
	mux.Handle("POST /addresses", h.requireAuth(h.createAddress))
	mux.Handle("GET /addresses", h.requireAuth(h.listAddresses))
	mux.Handle("POST /payments", h.requireAuth(h.createPayment))
	mux.Handle("POST /orders", h.requireAuth(h.createOrder))
	mux.Handle("GET /orders", h.requireAuth(h.listOrders))
	mux.Handle("GET /tables/{table}", h.requireAuth(h.dumpTable))

	return mux
}
