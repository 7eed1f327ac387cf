package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/embershop/storefront/internal/domain/payment"
)

type paymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
}

// createPayment records a payment ledger entry for the authenticated user,
// not yet linked to any order. The amount is the client's locally computed
// figure; the authoritative charge is the order total computed at checkout.
func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request, userID int64) {
	var req paymentRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := payment.Payment{
		UserID: userID,
		Amount: req.Amount,
		Method: req.PaymentMethod,
	}
	if err := p.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := h.payments.Create(r.Context(), &p)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"payment_id": id})
}
