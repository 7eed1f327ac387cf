package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/embershop/storefront/internal/domain/address"
	"github.com/embershop/storefront/internal/domain/order"
	"github.com/embershop/storefront/internal/domain/payment"
	"github.com/embershop/storefront/internal/domain/product"
	"github.com/embershop/storefront/internal/domain/user"
	"github.com/embershop/storefront/internal/repository"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Best effort: the status code is already written. An encode failure
	// here means the client disconnected.
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Error: message})
}

// respondDomainError maps a domain error onto the HTTP taxonomy:
// validation → 400, conflict → 409, credential/token failures → 401,
// missing references → 404, everything else → 500 with a generic message.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr  *address.ValidationError
		pnf   *order.ProductNotFoundError
		iqErr *order.InvalidQuantityError
	)

	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &iqErr):
		respondError(w, http.StatusBadRequest, iqErr.Error())
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrAddressRequired),
		errors.Is(err, order.ErrPaymentRequired),
		errors.Is(err, order.ErrPaymentAlreadyUsed),
		errors.Is(err, payment.ErrAmountRequired),
		errors.Is(err, payment.ErrMethodRequired):
		respondError(w, http.StatusBadRequest, rootMessage(err))
	case errors.Is(err, user.ErrDuplicate):
		respondError(w, http.StatusConflict, user.ErrDuplicate.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, user.ErrInvalidCredentials.Error())
	case errors.As(err, &pnf):
		respondError(w, http.StatusNotFound, pnf.Error())
	case errors.Is(err, product.ErrNotFound):
		respondError(w, http.StatusNotFound, product.ErrNotFound.Error())
	case errors.Is(err, user.ErrNotFound):
		respondError(w, http.StatusNotFound, user.ErrNotFound.Error())
	case errors.Is(err, address.ErrNotFound):
		respondError(w, http.StatusNotFound, address.ErrNotFound.Error())
	case errors.Is(err, payment.ErrNotFound):
		respondError(w, http.StatusNotFound, payment.ErrNotFound.Error())
	case errors.Is(err, order.ErrAddressNotOwned),
		errors.Is(err, order.ErrPaymentNotOwned):
		// Cross-user references look like missing resources to the caller.
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrUnknownTable):
		respondError(w, http.StatusBadRequest, repository.ErrUnknownTable.Error())
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// rootMessage unwraps err to its innermost cause so wrapped sentinel errors
// surface their own message, not the wrap chain.
func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

// decodeBody decodes a JSON request body into v, rejecting unknown syntax
// but not unknown fields.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
