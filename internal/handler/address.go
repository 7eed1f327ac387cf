package handler

import (
	"net/http"
	"time"

	"github.com/embershop/storefront/internal/domain/address"
)

type addressRequest struct {
	FullName      string `json:"fullName"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
}

type addressResponse struct {
	AddressID     int64     `json:"address_id"`
	FullName      string    `json:"fullName"`
	StreetAddress string    `json:"streetAddress"`
	City          string    `json:"city"`
	ZipCode       string    `json:"zipCode"`
	Country       string    `json:"country"`
	CreatedAt     time.Time `json:"createdAt"`
}

// createAddress appends a shipping address to the authenticated user's
// address book. Duplicates are allowed by design.
func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request, userID int64) {
	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a := address.Address{
		UserID:        userID,
		FullName:      req.FullName,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		ZipCode:       req.ZipCode,
		Country:       req.Country,
	}
	if err := a.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := h.addresses.Create(r.Context(), &a)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"address_id": id})
}

// listAddresses returns the authenticated user's addresses, newest first.
func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request, userID int64) {
	addresses, err := h.addresses.ListByUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]addressResponse, len(addresses))
	for i, a := range addresses {
		out[i] = addressResponse{
			AddressID:     a.ID,
			FullName:      a.FullName,
			StreetAddress: a.StreetAddress,
			City:          a.City,
			ZipCode:       a.ZipCode,
			Country:       a.Country,
			CreatedAt:     a.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, out)
}
