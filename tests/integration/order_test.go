//go:build integration

package integration

import (
	"math"
	"net/http"
	"testing"
)

// Seeded catalog prices used by checkout assertions: product 1 is
// "The Go Programming Language" at 34.99, product 3 is "Pocket Field
// Notebook" at 9.99.

func TestPlaceOrder_NoAuth(t *testing.T) {
	resp := doPost(t, "/orders", "", orderRequest{
		ShippingAddressID: 1,
		PaymentID:         1,
		Items:             []orderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_FullCheckout(t *testing.T) {
	session := registerUser(t)
	addressID := createAddress(t, session.Token)
	paymentID := createPayment(t, session.Token, 79.97)

	resp := doPost(t, "/orders", session.Token, orderRequest{
		ShippingAddressID: addressID,
		PaymentID:         paymentID,
		Items: []orderItemRequest{
			{ProductID: 1, Quantity: 2}, // 2x 34.99
			{ProductID: 3, Quantity: 1}, // 1x 9.99
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	placed := decodeJSON[orderResponse](t, resp)
	if placed.OrderID == 0 {
		t.Fatal("expected an order ID")
	}
	if math.Abs(placed.TotalAmount-79.97) > 1e-9 {
		t.Errorf("total: got %v, want 79.97", placed.TotalAmount)
	}

	// The order shows up in the user's history, joined with the shipping
	// address and payment.
	listResp := doGet(t, "/orders", session.Token)
	defer listResp.Body.Close()

	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("list orders: expected 200, got %d", listResp.StatusCode)
	}

	orders := decodeJSON[[]orderSummaryResponse](t, listResp)
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	got := orders[0]
	if got.OrderID != placed.OrderID {
		t.Errorf("order_id: got %d, want %d", got.OrderID, placed.OrderID)
	}
	if got.StreetAddress != "42 Harbor Rd" || got.City != "Portsmouth" {
		t.Errorf("unexpected shipping address: %+v", got)
	}
	if got.PaymentMethod != "credit_card" {
		t.Errorf("payment_method: got %q", got.PaymentMethod)
	}
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	session := registerUser(t)
	addressID := createAddress(t, session.Token)
	paymentID := createPayment(t, session.Token, 10)

	resp := doPost(t, "/orders", session.Token, orderRequest{
		ShippingAddressID: addressID,
		PaymentID:         paymentID,
		Items:             []orderItemRequest{},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	session := registerUser(t)
	addressID := createAddress(t, session.Token)
	paymentID := createPayment(t, session.Token, 10)

	resp := doPost(t, "/orders", session.Token, orderRequest{
		ShippingAddressID: addressID,
		PaymentID:         paymentID,
		Items:             []orderItemRequest{{ProductID: 99999, Quantity: 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	// The failed checkout must not leave an order behind.
	listResp := doGet(t, "/orders", session.Token)
	defer listResp.Body.Close()

	orders := decodeJSON[[]orderSummaryResponse](t, listResp)
	if len(orders) != 0 {
		t.Fatalf("expected no orders after failed checkout, got %d", len(orders))
	}
}

func TestPlaceOrder_ForeignAddress(t *testing.T) {
	alice := registerUser(t)
	aliceAddress := createAddress(t, alice.Token)

	mallory := registerUser(t)
	malloryPayment := createPayment(t, mallory.Token, 10)

	resp := doPost(t, "/orders", mallory.Token, orderRequest{
		ShippingAddressID: aliceAddress,
		PaymentID:         malloryPayment,
		Items:             []orderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_PaymentReuse(t *testing.T) {
	session := registerUser(t)
	addressID := createAddress(t, session.Token)
	paymentID := createPayment(t, session.Token, 34.99)

	first := doPost(t, "/orders", session.Token, orderRequest{
		ShippingAddressID: addressID,
		PaymentID:         paymentID,
		Items:             []orderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	first.Body.Close()
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first order: expected 201, got %d", first.StatusCode)
	}

	// The same payment cannot fund a second order.
	second := doPost(t, "/orders", session.Token, orderRequest{
		ShippingAddressID: addressID,
		PaymentID:         paymentID,
		Items:             []orderItemRequest{{ProductID: 1, Quantity: 1}},
	})
	defer second.Body.Close()

	if second.StatusCode != http.StatusBadRequest {
		t.Fatalf("second order: expected 400, got %d", second.StatusCode)
	}
}

func TestListAddresses_OwnOnly(t *testing.T) {
	alice := registerUser(t)
	createAddress(t, alice.Token)

	bob := registerUser(t)

	resp := doGet(t, "/addresses", bob.Token)
	defer resp.Body.Close()

	addresses := decodeJSON[[]addressResponse](t, resp)
	if len(addresses) != 0 {
		t.Fatalf("expected no addresses for a fresh user, got %d", len(addresses))
	}
}

func TestCreatePayment_InvalidAmount(t *testing.T) {
	session := registerUser(t)

	resp := doPost(t, "/payments", session.Token, map[string]any{
		"amount":        -5,
		"paymentMethod": "credit_card",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDumpTable_RequiresAuth(t *testing.T) {
	resp := doGet(t, "/tables/products", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestDumpTable_Products(t *testing.T) {
	session := registerUser(t)

	resp := doGet(t, "/tables/products", session.Token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	rows := decodeJSON[[]map[string]any](t, resp)
	if len(rows) != seededProducts {
		t.Fatalf("expected %d rows, got %d", seededProducts, len(rows))
	}
}

func TestDumpTable_Unknown(t *testing.T) {
	session := registerUser(t)

	resp := doGet(t, "/tables/pg_shadow", session.Token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Error == "" {
		t.Error("expected an error message")
	}
}
