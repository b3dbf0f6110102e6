package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
)

var ErrNotFound = errors.New("store: not found")

// Collection names shared by every driver.
const (
	CollectionUsers     = "users"
	CollectionApprovals = "userApprovals"
)

// Repositories groups the per-collection accessors. Both the Store and the
// handle passed to a WithTx callback implement it.
type Repositories interface {
	Users() Users
	Approvals() Approvals
}

// Store is the document store. Drivers: sqlite (local development and
// tests) and firestore.
type Store interface {
	Repositories

	// WithTx runs fn against a transaction-scoped view. Writes made through
	// tx are committed only if fn returns nil. fn runs at most once, so it
	// may call out to non-idempotent collaborators.
	WithTx(ctx context.Context, fn func(tx Repositories) error) error

	ApplyMigrations() error
	Ping(ctx context.Context) error
	Close() error
}

// Users is the users/{uid} collection.
type Users interface {
	Get(ctx context.Context, uid string) (domain.User, error)

	// Create writes u at users/{u.UID}, replacing any existing document.
	Create(ctx context.Context, u domain.User) error

	// Update replaces an existing document. ErrNotFound if absent.
	Update(ctx context.Context, u domain.User) error

	// Delete removes users/{uid}. Deleting a missing document is not an
	// error.
	Delete(ctx context.Context, uid string) error

	List(ctx context.Context) ([]domain.User, error)
	IsEmpty(ctx context.Context) (bool, error)
}

// Approvals is the userApprovals/{uid} collection.
type Approvals interface {
	Get(ctx context.Context, uid string) (domain.ApprovalRequest, error)
	Create(ctx context.Context, a domain.ApprovalRequest) error
	Update(ctx context.Context, a domain.ApprovalRequest) error
	Delete(ctx context.Context, uid string) error

	// List returns requests with the given status, or all when status is
	// empty, oldest first.
	List(ctx context.Context, status domain.ApprovalStatus) ([]domain.ApprovalRequest, error)
}
