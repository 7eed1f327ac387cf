package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/embershop/storefront/internal/domain/address"
)

const (
	createAddressSQL = `INSERT INTO addresses (user_id, full_name, street_address, city, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	listAddressesByUserSQL = `SELECT id, user_id, full_name, street_address, city, zip_code, country, created_at
		FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`

	getAddressByIDSQL = `SELECT id, user_id, full_name, street_address, city, zip_code, country, created_at
		FROM addresses WHERE id = $1`
)

var _ address.Repository = (*AddressRepository)(nil)

// AddressRepository implements address.Repository backed by PostgreSQL.
type AddressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns an AddressRepository that uses the given pool.
func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// Create appends a new address. Duplicates are allowed: the address book is
// intentionally not deduplicated.
func (r *AddressRepository) Create(ctx context.Context, a *address.Address) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, createAddressSQL,
		a.UserID, a.FullName, a.StreetAddress, a.City, a.ZipCode, a.Country,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating address for user %d: %w", a.UserID, err)
	}
	return id, nil
}

// ListByUser returns the user's addresses, most recently created first.
func (r *AddressRepository) ListByUser(ctx context.Context, userID int64) ([]address.Address, error) {
	rows, err := r.pool.Query(ctx, listAddressesByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses for user %d: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanAddress)
}

// GetByID returns a single address by its identifier.
func (r *AddressRepository) GetByID(ctx context.Context, id int64) (*address.Address, error) {
	rows, err := r.pool.Query(ctx, getAddressByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting address %d: %w", id, err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound
		}
		return nil, fmt.Errorf("getting address %d: %w", id, err)
	}
	return &a, nil
}

func scanAddress(row pgx.CollectableRow) (address.Address, error) {
	var a address.Address
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.StreetAddress, &a.City, &a.ZipCode, &a.Country, &a.CreatedAt)
	return a, err
}
