package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/embershop/storefront/internal/domain/address"
	"github.com/embershop/storefront/internal/domain/auth"
	"github.com/embershop/storefront/internal/domain/order"
	"github.com/embershop/storefront/internal/domain/payment"
	"github.com/embershop/storefront/internal/domain/product"
	"github.com/embershop/storefront/internal/domain/user"
	"github.com/embershop/storefront/internal/repository"
)

// --- In-memory stubs ---

type stubUserRepo struct {
	nextID int64
	users  []user.User
}

func (s *stubUserRepo) Create(_ context.Context, username, email, passwordHash string) (*user.User, error) {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, user.ErrDuplicate
		}
	}
	s.nextID++
	u := user.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users = append(s.users, u)
	return &u, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

type stubProductRepo struct {
	products   []product.Product
	lastFilter product.Filter
	listErr    error
}

func (s *stubProductRepo) List(_ context.Context, filter product.Filter) ([]product.Product, error) {
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

func (s *stubProductRepo) GetByIDs(_ context.Context, ids []int64) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		for _, p := range s.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (s *stubProductRepo) ListCategories(_ context.Context) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

type stubAddressRepo struct {
	nextID    int64
	addresses []address.Address
}

func (s *stubAddressRepo) Create(_ context.Context, a *address.Address) (int64, error) {
	s.nextID++
	stored := *a
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	s.addresses = append(s.addresses, stored)
	return stored.ID, nil
}

func (s *stubAddressRepo) ListByUser(_ context.Context, userID int64) ([]address.Address, error) {
	var out []address.Address
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAddressRepo) GetByID(_ context.Context, id int64) (*address.Address, error) {
	for _, a := range s.addresses {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, address.ErrNotFound
}

type stubPaymentRepo struct {
	nextID   int64
	payments []payment.Payment
}

func (s *stubPaymentRepo) Create(_ context.Context, p *payment.Payment) (int64, error) {
	s.nextID++
	stored := *p
	stored.ID = s.nextID
	stored.CreatedAt = time.Now()
	s.payments = append(s.payments, stored)
	return stored.ID, nil
}

func (s *stubPaymentRepo) GetByID(_ context.Context, id int64) (*payment.Payment, error) {
	for _, p := range s.payments {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, payment.ErrNotFound
}

type stubOrderRepo struct {
	nextID    int64
	created   []order.Order
	items     [][]order.Item
	summaries []order.Summary
}

func (s *stubOrderRepo) CreateWithItems(_ context.Context, o *order.Order, items []order.Item, _ int64) (int64, error) {
	s.nextID++
	stored := *o
	stored.ID = s.nextID
	s.created = append(s.created, stored)
	s.items = append(s.items, items)
	return stored.ID, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ int64) ([]order.Summary, error) {
	return s.summaries, nil
}

type stubTableDumper struct {
	dump *repository.TableDump
}

func (s *stubTableDumper) Dump(_ context.Context, table string) (*repository.TableDump, error) {
	if s.dump == nil {
		return nil, errors.Wrapf(repository.ErrUnknownTable, "dumping table %s", table)
	}
	return s.dump, nil
}

// --- Fixture ---

type fixture struct {
	handler   http.Handler
	tokens    *auth.Issuer
	users     *stubUserRepo
	products  *stubProductRepo
	addresses *stubAddressRepo
	payments  *stubPaymentRepo
	orders    *stubOrderRepo
	tables    *stubTableDumper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		tokens:    auth.NewIssuer([]byte("test-secret"), time.Hour),
		users:     &stubUserRepo{},
		products:  &stubProductRepo{},
		addresses: &stubAddressRepo{},
		payments:  &stubPaymentRepo{},
		orders:    &stubOrderRepo{},
		tables:    &stubTableDumper{},
	}

	orderSvc := order.NewService(f.products, f.addresses, f.payments, f.orders)
	h := NewHandler(
		user.NewService(f.users),
		f.users,
		f.tokens,
		f.products,
		f.addresses,
		f.payments,
		orderSvc,
		f.tables,
	)
	f.handler = h.Routes()
	return f
}

// do performs a request against the route table and returns the recorder.
func (f *fixture) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the recorded response body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// registeredUser creates an account through the API and returns its session.
func (f *fixture) registeredUser(t *testing.T, username, email string) sessionResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/register", "", registerRequest{
		Username: username,
		Email:    email,
		Password: "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session sessionResponse
	decode(t, rec, &session)
	return session
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
