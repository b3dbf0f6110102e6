// Package identity abstracts the managed identity provider that owns user
// accounts and verifies caller tokens.
package identity

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
)

var (
	ErrAccountNotFound = errors.New("identity: account not found")
	ErrEmailExists     = errors.New("identity: email already in use")
	ErrInvalidToken    = errors.New("identity: invalid token")
	ErrInvalidEmail    = errors.New("identity: invalid email address")
	ErrWeakPassword    = errors.New("identity: password must be at least 6 characters")
)

// Provider is implemented by drivers/local and drivers/firebase.
type Provider interface {
	// CreateAccount registers a new account and returns the assigned uid.
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)

	// DeleteAccount removes the account. ErrAccountNotFound if absent.
	DeleteAccount(ctx context.Context, uid string) error

	GetAccount(ctx context.Context, uid string) (domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// VerifyToken validates an ID token and returns the caller it names.
	VerifyToken(ctx context.Context, raw string) (*domain.Caller, error)
}

// MinPasswordLength is the shortest password any driver accepts.
const MinPasswordLength = 6
