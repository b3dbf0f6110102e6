package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/identity"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

const (
	msgOnlyAdminsCreate   = "Only admins can create users"
	msgOnlyAdminsDelete   = "Only admins can delete users"
	msgMissingFields      = "Missing required fields"
	msgUserIDRequired     = "User ID is required"
	msgErrorDeletingUser  = "Error deleting user"
	msgDeletedUserPattern = "Successfully deleted user %s"
)

// AdminService implements the createUser and deleteUser admin actions.
// Each call runs: authenticate, authorize against the caller's own user
// document, validate the payload, then mutate the identity provider and
// the document store.
type AdminService struct {
	Store    store.Store
	Identity identity.Provider
	Now      func() time.Time
}

type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
	EmployeeID  string `json:"employeeId,omitempty"`
}

type CreateUserResult struct {
	UID string `json:"uid"`
}

type DeleteUserRequest struct {
	UID string `json:"uid"`
}

type DeleteUserResult struct {
	Message string `json:"message"`
}

func (s *AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateUser creates the identity account and then, in one document
// transaction, the users document and (for managers) the pending approval
// request. If the transaction fails the account is deleted again.
func (s *AdminService) CreateUser(ctx context.Context, caller *domain.Caller, req CreateUserRequest) (CreateUserResult, error) {
	log := slogx.FromContext(ctx)

	if err := requireAdmin(ctx, s.Store.Users(), caller, msgOnlyAdminsCreate); err != nil {
		return CreateUserResult{}, err
	}

	email := strings.TrimSpace(req.Email)
	displayName := strings.TrimSpace(req.DisplayName)
	role := strings.TrimSpace(req.Role)
	if email == "" || strings.TrimSpace(req.Password) == "" || displayName == "" || role == "" {
		log.Warn("createUser rejected: missing fields", slog.String("caller_uid", caller.UID))
		return CreateUserResult{}, invalidArgument(msgMissingFields)
	}

	uid, err := s.Identity.CreateAccount(ctx, email, req.Password, displayName)
	if err != nil {
		log.Error("failed to create account", slog.String("email", email), slog.Any("error", err))
		return CreateUserResult{}, internal(err.Error(), err)
	}

	now := s.now()
	actor := domain.ActorOrDefault(caller.UID)
	pending := domain.RequiresApproval(role)
	user := domain.User{
		UID:             uid,
		Email:           email,
		DisplayName:     displayName,
		Role:            role,
		Department:      strings.TrimSpace(req.Department),
		EmployeeID:      strings.TrimSpace(req.EmployeeID),
		Disabled:        pending,
		PendingApproval: pending,
		EmailVerified:   false,
		CreationTime:    now,
		LastUpdated:     now,
		CreatedBy:       actor,
		UpdatedBy:       actor,
	}

	err = s.Store.WithTx(ctx, func(tx store.Repositories) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return fmt.Errorf("write user document: %w", err)
		}
		if pending {
			if err := tx.Approvals().Create(ctx, domain.NewApprovalRequest(user, now)); err != nil {
				return fmt.Errorf("write approval request: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to write user documents", slog.String("uid", uid), slog.Any("error", err))
		s.compensateAccount(ctx, uid)
		return CreateUserResult{}, internal(err.Error(), err)
	}

	log.Info("user created",
		slog.String("uid", uid),
		slog.String("role", role),
		slog.Bool("pending_approval", pending),
	)
	return CreateUserResult{UID: uid}, nil
}

// compensateAccount removes an account whose documents could not be
// written. It runs even if ctx was cancelled. A failure leaves an orphan
// account for reconciliation to report.
func (s *AdminService) compensateAccount(ctx context.Context, uid string) {
	if err := s.Identity.DeleteAccount(context.WithoutCancel(ctx), uid); err != nil {
		slogx.FromContext(ctx).Error("compensation failed: orphan account left behind",
			slog.String("orphan_uid", uid),
			slog.Any("error", err),
		)
		return
	}
	slogx.FromContext(ctx).Warn("compensated: account removed after document write failure",
		slog.String("uid", uid),
	)
}

// DeleteUser removes the users document and the identity account. The
// account deletion runs inside the document transaction, so a failure
// there leaves the document in place.
func (s *AdminService) DeleteUser(ctx context.Context, caller *domain.Caller, req DeleteUserRequest) (DeleteUserResult, error) {
	log := slogx.FromContext(ctx)

	if err := requireAdmin(ctx, s.Store.Users(), caller, msgOnlyAdminsDelete); err != nil {
		return DeleteUserResult{}, err
	}

	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		log.Warn("deleteUser rejected: missing uid", slog.String("caller_uid", caller.UID))
		return DeleteUserResult{}, invalidArgument(msgUserIDRequired)
	}

	err := s.Store.WithTx(ctx, func(tx store.Repositories) error {
		if err := tx.Users().Delete(ctx, uid); err != nil {
			return fmt.Errorf("delete user document: %w", err)
		}
		if err := s.Identity.DeleteAccount(ctx, uid); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete user", slog.String("uid", uid), slog.Any("error", err))
		return DeleteUserResult{}, internal(msgErrorDeletingUser, err)
	}

	log.Info("user deleted", slog.String("uid", uid), slog.String("deleted_by", caller.UID))
	return DeleteUserResult{Message: fmt.Sprintf(msgDeletedUserPattern, uid)}, nil
}
