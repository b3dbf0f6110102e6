package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/identity"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	"github.com/aussiebroadwan/lunch/pkg/cryptox"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

var (
	ErrBootstrapAlready             = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized        = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapInvalidRequest      = errors.New("email, password and displayName are required")
	ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin user")
)

// BootstrapService creates the first admin while the users collection is
// empty. Without it no caller could ever pass the admin check.
type BootstrapService struct {
	Store    store.Store
	Identity identity.Provider
	Token    string // pre-shared; bootstrap is disabled when empty
	Now      func() time.Time
}

type BootstrapRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type BootstrapResult struct {
	UID string `json:"uid"`
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (BootstrapResult, error) {
	log := slogx.FromContext(ctx)

	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		log.Error("failed to check bootstrap state", slog.Any("error", err))
		return BootstrapResult{}, fmt.Errorf("bootstrap: %w", err)
	}
	if bootstrapped {
		log.Warn("attempted bootstrap on already-bootstrapped system")
		return BootstrapResult{}, ErrBootstrapAlready
	}

	if !cryptox.EqualTokens(s.Token, token) {
		log.Warn("unauthorized bootstrap attempt")
		return BootstrapResult{}, ErrBootstrapUnauthorized
	}

	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.DisplayName)
	if email == "" || name == "" || strings.TrimSpace(req.Password) == "" {
		return BootstrapResult{}, ErrBootstrapInvalidRequest
	}

	uid, err := s.Identity.CreateAccount(ctx, email, req.Password, name)
	if err != nil {
		log.Error("failed to create admin account", slog.Any("error", err))
		return BootstrapResult{}, fmt.Errorf("%w: %v", ErrBootstrapFailedToCreateAdmin, err)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	actor := domain.ActorOrDefault("")
	admin := domain.User{
		UID:          uid,
		Email:        email,
		DisplayName:  name,
		Role:         domain.RoleAdmin,
		CreationTime: now,
		LastUpdated:  now,
		CreatedBy:    actor,
		UpdatedBy:    actor,
	}

	if err := s.Store.WithTx(ctx, func(tx store.Repositories) error {
		return tx.Users().Create(ctx, admin)
	}); err != nil {
		log.Error("failed to write admin document", slog.String("uid", uid), slog.Any("error", err))
		if derr := s.Identity.DeleteAccount(context.WithoutCancel(ctx), uid); derr != nil {
			log.Error("compensation failed: orphan account left behind",
				slog.String("orphan_uid", uid),
				slog.Any("error", derr),
			)
		}
		return BootstrapResult{}, fmt.Errorf("%w: %v", ErrBootstrapFailedToCreateAdmin, err)
	}

	log.Info("successfully bootstrapped system", slog.String("admin_uid", uid))
	return BootstrapResult{UID: uid}, nil
}
