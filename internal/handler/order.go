package handler

import (
	"net/http"
	"time"

	"github.com/embershop/storefront/internal/domain/order"
)

type orderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type orderRequest struct {
	ShippingAddressID int64              `json:"shippingAddressId"`
	PaymentID         int64              `json:"paymentId"`
	Items             []orderItemRequest `json:"items"`
}

type orderResponse struct {
	OrderID     int64   `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
}

type orderSummaryResponse struct {
	OrderID       int64     `json:"order_id"`
	TotalAmount   float64   `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	PaymentMethod string    `json:"payment_method"`
	PaymentAmount float64   `json:"payment_amount"`
}

// createOrder runs checkout for the authenticated user. The server prices
// every line from the catalog; any productId or quantity the client sent is
// validated and any price it cached is ignored.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request, userID int64) {
	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.RequestItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.RequestItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	placed, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:            userID,
		ShippingAddressID: req.ShippingAddressID,
		PaymentID:         req.PaymentID,
		Items:             items,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, orderResponse{
		OrderID:     placed.OrderID,
		TotalAmount: placed.Total.InexactFloat64(),
	})
}

// listOrders returns the authenticated user's order history, newest first,
// each order joined with its shipping address and payment.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, userID int64) {
	summaries, err := h.orders.ListForUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]orderSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = orderSummaryResponse{
			OrderID:       s.OrderID,
			TotalAmount:   s.Total.InexactFloat64(),
			CreatedAt:     s.CreatedAt,
			StreetAddress: s.StreetAddress,
			City:          s.City,
			Country:       s.Country,
			PaymentMethod: s.PaymentMethod,
			PaymentAmount: s.PaymentAmount.InexactFloat64(),
		}
	}
	respondJSON(w, http.StatusOK, out)
}
