package user

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// Service encapsulates registration and login business logic.
type Service struct {
	users Repository
	cost  int
}

// NewService creates a user Service backed by the given repository.
func NewService(users Repository) *Service {
	return &Service{
		users: users,
		cost:  bcrypt.DefaultCost,
	}
}

// Register hashes the password and creates the account. Duplicate usernames
// or emails surface as ErrDuplicate from the repository's unique constraints;
// concurrent identical registrations are serialized by the database, so
// exactly one of them succeeds.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u, err := s.users.Create(ctx, username, email, string(hash))
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, errors.Wrap(err, "create user")
	}
	return u, nil
}

// Authenticate looks up the account by email and compares the password
// against the stored hash. Both failure modes collapse into
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "get user by email")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
