package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

const msgErrorVerifyingCaller = "Error verifying caller"

// requireAdmin checks that caller is present and that their own user
// document has the admin role. The document is read on every call; roles
// can change between calls.
func requireAdmin(ctx context.Context, users store.Users, caller *domain.Caller, denied string) error {
	log := slogx.FromContext(ctx)

	if caller == nil || caller.UID == "" {
		log.Warn("rejected unauthenticated call")
		return unauthenticated()
	}

	u, err := users.Get(ctx, caller.UID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Warn("caller has no user document", slog.String("caller_uid", caller.UID))
		return permissionDenied(denied)
	case err != nil:
		log.Error("failed to load caller document",
			slog.String("caller_uid", caller.UID),
			slog.Any("error", err),
		)
		return internal(msgErrorVerifyingCaller, err)
	case !u.IsAdmin():
		log.Warn("caller is not an admin",
			slog.String("caller_uid", caller.UID),
			slog.String("role", u.Role),
		)
		return permissionDenied(denied)
	}
	return nil
}
