// Package firebase adapts Firebase Authentication to identity.Provider.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/identity"
	"google.golang.org/api/iterator"
)

// authClient is the subset of *auth.Client used here.
type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Provider struct {
	client authClient
	list   func(ctx context.Context) ([]domain.Account, error)
}

var _ identity.Provider = (*Provider)(nil)

func New(client *auth.Client) *Provider {
	return &Provider{
		client: client,
		list: func(ctx context.Context) ([]domain.Account, error) {
			return listAll(client.Users(ctx, ""))
		},
	}
}

func (p *Provider) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName).
		EmailVerified(false).
		Disabled(false)

	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return "", mapError(err)
	}
	return rec.UID, nil
}

func (p *Provider) DeleteAccount(ctx context.Context, uid string) error {
	return mapError(p.client.DeleteUser(ctx, uid))
}

func (p *Provider) GetAccount(ctx context.Context, uid string) (domain.Account, error) {
	rec, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return domain.Account{}, mapError(err)
	}
	return toAccount(rec), nil
}

func (p *Provider) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return p.list(ctx)
}

func (p *Provider) VerifyToken(ctx context.Context, raw string) (*domain.Caller, error) {
	tok, err := p.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}
	email, _ := tok.Claims["email"].(string)
	return &domain.Caller{UID: tok.UID, Email: email}, nil
}

func listAll(it *auth.UserIterator) ([]domain.Account, error) {
	var out []domain.Account
	for {
		rec, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("firebase: list users: %w", err)
		}
		out = append(out, toAccount(rec.UserRecord))
	}
}

func toAccount(rec *auth.UserRecord) domain.Account {
	a := domain.Account{
		Disabled:      rec.Disabled,
		EmailVerified: rec.EmailVerified,
	}
	if rec.UserInfo != nil {
		a.UID = rec.UID
		a.Email = rec.Email
		a.DisplayName = rec.DisplayName
	}
	if rec.UserMetadata != nil && rec.UserMetadata.CreationTimestamp > 0 {
		a.CreatedAt = time.UnixMilli(rec.UserMetadata.CreationTimestamp).UTC()
	}
	return a
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case auth.IsUserNotFound(err):
		return fmt.Errorf("%w: %v", identity.ErrAccountNotFound, err)
	case auth.IsEmailAlreadyExists(err):
		return fmt.Errorf("%w: %v", identity.ErrEmailExists, err)
	}
	return err
}
