package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embershop/storefront/internal/domain/order"
	"github.com/embershop/storefront/internal/domain/product"
)

// checkoutFixture is a fixture with a catalog, a registered user, and that
// user's address and payment already in place.
type checkoutFixture struct {
	*fixture
	session   sessionResponse
	addressID int64
	paymentID int64
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	f := newFixture(t)
	f.products.products = []product.Product{
		{ID: 1, Name: "USB Cable", Price: money("4.99"), Category: "Electronics"},
		{ID: 2, Name: "Paperback Novel", Price: money("10.00"), Category: "Books"},
	}

	session := f.registeredUser(t, "alice", "alice@example.com")

	rec := f.do(t, http.MethodPost, "/addresses", session.Token, validAddress())
	require.Equal(t, http.StatusCreated, rec.Code)
	var addr map[string]int64
	decode(t, rec, &addr)

	rec = f.do(t, http.MethodPost, "/payments", session.Token, paymentRequest{
		Amount:        money("19.98"),
		PaymentMethod: "credit_card",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var pay map[string]int64
	decode(t, rec, &pay)

	return &checkoutFixture{
		fixture:   f,
		session:   session,
		addressID: addr["address_id"],
		paymentID: pay["payment_id"],
	}
}

func (f *checkoutFixture) orderBody(items ...orderItemRequest) orderRequest {
	return orderRequest{
		ShippingAddressID: f.addressID,
		PaymentID:         f.paymentID,
		Items:             items,
	}
}

func TestCreateOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(t, http.MethodPost, "/orders", f.session.Token,
		f.orderBody(
			orderItemRequest{ProductID: 1, Quantity: 2},
			orderItemRequest{ProductID: 2, Quantity: 1},
		))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out orderResponse
	decode(t, rec, &out)
	assert.Equal(t, int64(1), out.OrderID)
	// 2 × 4.99 + 1 × 10.00, priced from the catalog.
	assert.Equal(t, 19.98, out.TotalAmount)

	require.Len(t, f.orders.created, 1)
	placed := f.orders.created[0]
	assert.Equal(t, f.session.UserID, placed.UserID)
	assert.Equal(t, f.addressID, placed.ShippingAddressID)

	// Line items carry the catalog price snapshot.
	require.Len(t, f.orders.items, 1)
	items := f.orders.items[0]
	require.Len(t, items, 2)
	assert.True(t, items[0].Price.Equal(money("4.99")))
	assert.True(t, items[1].Price.Equal(money("10.00")))
}

func TestCreateOrderEmptyItems(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(t, http.MethodPost, "/orders", f.session.Token, f.orderBody())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "items required", body.Error)
}

func TestCreateOrderMissingReferences(t *testing.T) {
	f := newCheckoutFixture(t)

	noAddress := f.orderBody(orderItemRequest{ProductID: 1, Quantity: 1})
	noAddress.ShippingAddressID = 0
	rec := f.do(t, http.MethodPost, "/orders", f.session.Token, noAddress)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	noPayment := f.orderBody(orderItemRequest{ProductID: 1, Quantity: 1})
	noPayment.PaymentID = 0
	rec = f.do(t, http.MethodPost, "/orders", f.session.Token, noPayment)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, f.orders.created)
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(t, http.MethodPost, "/orders", f.session.Token,
		f.orderBody(orderItemRequest{ProductID: 1, Quantity: 0}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.orders.created)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := newCheckoutFixture(t)

	rec := f.do(t, http.MethodPost, "/orders", f.session.Token,
		f.orderBody(
			orderItemRequest{ProductID: 1, Quantity: 1},
			orderItemRequest{ProductID: 999, Quantity: 1},
		))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "product 999 not found", body.Error)

	// One bad line fails the whole checkout before any write.
	assert.Empty(t, f.orders.created)
}

func TestCreateOrderForeignReferences(t *testing.T) {
	f := newCheckoutFixture(t)
	mallory := f.registeredUser(t, "mallory", "mallory@example.com")

	// Mallory references Alice's address and payment. Both look like
	// missing resources, not permission errors.
	body := f.orderBody(orderItemRequest{ProductID: 1, Quantity: 1})
	rec := f.do(t, http.MethodPost, "/orders", mallory.Token, body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.orders.created)
}

func TestCreateOrderPaymentAlreadyUsed(t *testing.T) {
	f := newCheckoutFixture(t)

	usedOrderID := int64(7)
	f.payments.payments[0].OrderID = &usedOrderID

	rec := f.do(t, http.MethodPost, "/orders", f.session.Token,
		f.orderBody(orderItemRequest{ProductID: 1, Quantity: 1}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "payment is already linked to an order", body.Error)
	assert.Empty(t, f.orders.created)
}

func TestListOrders(t *testing.T) {
	f := newCheckoutFixture(t)

	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f.orders.summaries = []order.Summary{{
		OrderID:       1,
		Total:         money("19.98"),
		CreatedAt:     created,
		StreetAddress: "1 Main St",
		City:          "Springfield",
		Country:       "USA",
		PaymentMethod: "credit_card",
		PaymentAmount: money("19.98"),
	}}

	rec := f.do(t, http.MethodGet, "/orders", f.session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []orderSummaryResponse
	decode(t, rec, &out)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].OrderID)
	assert.Equal(t, 19.98, out[0].TotalAmount)
	assert.Equal(t, "1 Main St", out[0].StreetAddress)
	assert.Equal(t, "credit_card", out[0].PaymentMethod)
	assert.True(t, created.Equal(out[0].CreatedAt))
}
