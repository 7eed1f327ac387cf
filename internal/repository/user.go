package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/embershop/storefront/internal/domain/user"
)

const (
	createUserSQL = `INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	getUserByEmailSQL = `SELECT id, username, email, password_hash, created_at
		FROM users WHERE email = $1`

	getUserByIDSQL = `SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. There is no existence pre-check: the unique
// constraints on username and email are the single source of user.ErrDuplicate,
// so concurrent identical registrations are serialized by the database.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (*user.User, error) {
	u := &user.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := r.pool.QueryRow(ctx, createUserSQL, username, email, passwordHash).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, user.ErrDuplicate
		}
		return nil, fmt.Errorf("creating user %q: %w", username, err)
	}
	return u, nil
}

// GetByEmail returns the user with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, getUserByEmailSQL, email)
}

// GetByID returns the user with the given ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, getUserByIDSQL, id)
}

func (r *UserRepository) getOne(ctx context.Context, sql string, arg any) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, sql, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}
