package address

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested address does not exist.
var ErrNotFound = errors.New("address not found")

// ValidationError indicates a required address field is missing or empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Address is a shipping destination owned by a user. The address book is
// append-only and never deduplicated: a user may save near-identical
// addresses across checkouts.
type Address struct {
	ID            int64
	UserID        int64
	FullName      string
	StreetAddress string
	City          string
	ZipCode       string
	Country       string
	CreatedAt     time.Time
}

// Validate checks that every required field is present. The first missing
// field is reported.
func (a *Address) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"streetAddress", a.StreetAddress},
		{"city", a.City},
		{"zipCode", a.ZipCode},
		{"country", a.Country},
	}
	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

// Repository defines persistence operations for the address book.
type Repository interface {
	// Create appends a new address and returns its assigned ID.
	Create(ctx context.Context, a *Address) (int64, error)
	// ListByUser returns the user's addresses, most recently created first.
	ListByUser(ctx context.Context, userID int64) ([]Address, error)
	// GetByID returns a single address regardless of owner; callers check
	// UserID before acting on it.
	GetByID(ctx context.Context, id int64) (*Address, error)
}
