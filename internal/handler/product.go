package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/embershop/storefront/internal/domain/product"
)

// allCategoriesSentinel is the category value the storefront UI sends when
// no category filter is selected.
const allCategoriesSentinel = "All Categories"

// productResponse is the wire shape of a catalog item.
type productResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.InexactFloat64(),
		Category: p.Category,
	}
}

// listProducts returns catalog products matching the minPrice, maxPrice,
// and category query filters. Filters are conjunctive; absent or empty
// parameters are no-ops, and "All Categories" means no category filter.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter product.Filter
	for _, p := range []struct {
		param string
		dst   **decimal.Decimal
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := q.Get(p.param)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, p.param+" must be a number")
			return
		}
		*p.dst = &d
	}

	if category := q.Get("category"); category != "" && category != allCategoriesSentinel {
		filter.Category = category
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// getProduct returns a single product by ID.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, product.ErrNotFound.Error())
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

// listCategories returns the distinct category values, sorted.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.ListCategories(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, categories)
}
