package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for identity operations.
var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a username or email is already taken.
	// The storage layer's unique constraints are the sole source of this
	// error; there is no pre-insert existence check.
	ErrDuplicate = errors.New("username or email already exists")
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered account. PasswordHash is the bcrypt hash of
// the password; the plaintext is never stored.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Repository defines persistence operations for users.
type Repository interface {
	// Create inserts a new user and returns it with the assigned ID.
	// Returns ErrDuplicate when the username or email is already taken.
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	// GetByEmail returns the user with the given email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID returns the user with the given ID, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*User, error)
}
