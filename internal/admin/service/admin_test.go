package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/service"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	"github.com/stretchr/testify/require"
)

func newAdminService(t *testing.T) (*service.AdminService, *fakeIdentity) {
	t.Helper()
	idp := newFakeIdentity()
	return &service.AdminService{Store: newStore(t), Identity: idp, Now: clock}, idp
}

func requireCallError(t *testing.T, err error, kind service.Kind, msg string) {
	t.Helper()
	var ce *service.CallError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, kind, ce.Kind)
	require.Equal(t, msg, ce.Message)
}

var validCreate = service.CreateUserRequest{
	Email: "m@x.com", Password: "secret1", DisplayName: "M", Role: domain.RoleManager,
}

func TestCreateUser_Unauthenticated(t *testing.T) {
	svc, idp := newAdminService(t)

	for _, req := range []service.CreateUserRequest{validCreate, {}} {
		_, err := svc.CreateUser(context.Background(), nil, req)
		requireCallError(t, err, service.KindUnauthenticated, "Must be logged in")
		require.ErrorIs(t, err, service.ErrUnauthenticated)
	}
	require.Zero(t, idp.mutations())
}

func TestCreateUser_PermissionDenied(t *testing.T) {
	svc, idp := newAdminService(t)
	staff := seedUser(t, svc.Store, idp, "staff-1", "staff")

	t.Run("no user document", func(t *testing.T) {
		_, err := svc.CreateUser(context.Background(), &domain.Caller{UID: "ghost"}, validCreate)
		requireCallError(t, err, service.KindPermissionDenied, "Only admins can create users")
	})

	t.Run("not an admin, even with an empty payload", func(t *testing.T) {
		_, err := svc.CreateUser(context.Background(), staff, service.CreateUserRequest{})
		requireCallError(t, err, service.KindPermissionDenied, "Only admins can create users")
		require.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	require.Zero(t, idp.creates)
	users, approvals := countDocs(t, svc.Store)
	require.Equal(t, 1, users)
	require.Zero(t, approvals)
}

func TestCreateUser_RoleReadOnEveryCall(t *testing.T) {
	ctx := context.Background()
	svc, idp := newAdminService(t)
	admin := seedUser(t, svc.Store, idp, "a1", domain.RoleAdmin)

	_, err := svc.CreateUser(ctx, admin, service.CreateUserRequest{Email: "s@x.com", Password: "secret1", DisplayName: "S", Role: "staff"})
	require.NoError(t, err)

	doc, err := svc.Store.Users().Get(ctx, "a1")
	require.NoError(t, err)
	doc.Role = "staff"
	require.NoError(t, svc.Store.Users().Update(ctx, doc))

	_, err = svc.CreateUser(ctx, admin, service.CreateUserRequest{Email: "t@x.com", Password: "secret1", DisplayName: "T", Role: "staff"})
	require.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestCreateUser_MissingFields(t *testing.T) {
	svc, idp := newAdminService(t)
	admin := seedUser(t, svc.Store, idp, "a1", domain.RoleAdmin)

	cases := map[string]func(*service.CreateUserRequest){
		"email":              func(r *service.CreateUserRequest) { r.Email = "" },
		"password":           func(r *service.CreateUserRequest) { r.Password = "" },
		"displayName":        func(r *service.CreateUserRequest) { r.DisplayName = "" },
		"role":               func(r *service.CreateUserRequest) { r.Role = "" },
		"blank email":        func(r *service.CreateUserRequest) { r.Email = "   " },
		"blank display name": func(r *service.CreateUserRequest) { r.DisplayName = "\t" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validCreate
			mutate(&req)
			_, err := svc.CreateUser(context.Background(), admin, req)
			requireCallError(t, err, service.KindInvalidArgument, "Missing required fields")
		})
	}
	require.Zero(t, idp.creates)
}

func TestCreateUser_Manager(t *testing.T) {
	ctx := context.Background()
	svc, idp := newAdminService(t)
	admin := seedUser(t, svc.Store, idp, "A", domain.RoleAdmin)

	res, err := svc.CreateUser(ctx, admin, validCreate)
	require.NoError(t, err)
	require.NotEmpty(t, res.UID)
	require.True(t, idp.has(res.UID))

	u, err := svc.Store.Users().Get(ctx, res.UID)
	require.NoError(t, err)
	require.Equal(t, domain.User{
		UID:             res.UID,
		Email:           "m@x.com",
		DisplayName:     "M",
		Role:            domain.RoleManager,
		Disabled:        true,
		PendingApproval: true,
		EmailVerified:   false,
		CreationTime:    fixedNow,
		LastUpdated:     fixedNow,
		CreatedBy:       "A",
		UpdatedBy:       "A",
	}, u)

	a, err := svc.Store.Approvals().Get(ctx, res.UID)
	require.NoError(t, err)
	require.Equal(t, domain.ApprovalPending, a.Status)
	require.Equal(t, "Created by admin", a.Notes)
	require.Nil(t, a.ReviewedBy)
	require.Nil(t, a.ReviewedAt)
	require.Equal(t, fixedNow, a.RequestTime)
}

func TestCreateUser_NonManagerHasNoApproval(t *testing.T) {
	ctx := context.Background()
	svc, idp := newAdminService(t)
	admin := seedUser(t, svc.Store, idp, "A", domain.RoleAdmin)

	req := validCreate
	req.Role = "staff"
	req.Department = "Kitchen"
	req.EmployeeID = "E42"
	res, err := svc.CreateUser(ctx, admin, req)
	require.NoError(t, err)

	u, err := svc.Store.Users().Get(ctx, res.UID)
	require.NoError(t, err)
	require.False(t, u.Disabled)
	require.False(t, u.PendingApproval)
	require.Equal(t, "Kitchen", u.Department)
	require.Equal(t, "E42", u.EmployeeID)

	_, err = svc.Store.Approvals().Get(ctx, res.UID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUser_AccountFailureForwardsMessage(t *testing.T) {
	svc, idp := newAdminService(t)
	admin := seedUser(t, svc.Store, idp, "A", domain.RoleAdmin)
	idp.createErr = errors.New("The email address is improperly formatted.")

	_, err := svc.CreateUser(context.Background(), admin, validCreate)
	requireCallError(t, err, service.KindInternal, "The email address is improperly formatted.")
	require.ErrorIs(t, err, service.ErrInternal)

	users, approvals := countDocs(t, svc.Store)
	require.Equal(t, 1, users)
	require.Zero(t, approvals)
}

func TestCreateUser_DocumentFailureCompensates(t *testing.T) {
	ctx := context.Background()
	base := newStore(t)
	idp := newFakeIdentity()
	admin := seedUser(t, base, idp, "A", domain.RoleAdmin)

	boom := errors.New("document store unavailable")
	svc := &service.AdminService{Store: &faultyStore{Store: base, txErr: boom}, Identity: idp, Now: clock}

	_, err := svc.CreateUser(ctx, admin, validCreate)
	requireCallError(t, err, service.KindInternal, boom.Error())
	require.ErrorIs(t, err, boom)

	accounts, err := idp.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1, "only the admin account remains")
	require.Equal(t, 1, idp.deletes)
}

func TestCreateUser_CompensationFailureStillInternal(t *testing.T) {
	ctx := context.Background()
	base := newStore(t)
	idp := newFakeIdentity()
	admin := seedUser(t, base, idp, "A", domain.RoleAdmin)

	svc := &service.AdminService{Store: &faultyStore{Store: base, txErr: errors.New("write failed")}, Identity: idp, Now: clock}
	idp.deleteErr = errors.New("identity down")

	_, err := svc.CreateUser(ctx, admin, validCreate)
	require.ErrorIs(t, err, service.ErrInternal)

	accounts, err := idp.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2, "orphan account is left for reconciliation")
}

func TestCallerLookupFailure(t *testing.T) {
	base := newStore(t)
	idp := newFakeIdentity()
	svc := &service.AdminService{Store: &faultyStore{Store: base, getErr: errors.New("disk I/O error")}, Identity: idp, Now: clock}

	_, err := svc.CreateUser(context.Background(), &domain.Caller{UID: "A"}, validCreate)
	requireCallError(t, err, service.KindInternal, "Error verifying caller")

	_, err = svc.DeleteUser(context.Background(), &domain.Caller{UID: "A"}, service.DeleteUserRequest{UID: "x"})
	requireCallError(t, err, service.KindInternal, "Error verifying caller")
	require.Zero(t, idp.mutations())
}

func TestDeleteUser_Validation(t *testing.T) {
	svc, idp := newAdminService(t)
	staff := seedUser(t, svc.Store, idp, "staff-1", "staff")
	admin := seedUser(t, svc.Store, idp, "a1", domain.RoleAdmin)
	seedUser(t, svc.Store, idp, "x", "staff")

	_, err := svc.DeleteUser(context.Background(), nil, service.DeleteUserRequest{UID: "x"})
	requireCallError(t, err, service.KindUnauthenticated, "Must be logged in")

	_, err = svc.DeleteUser(context.Background(), staff, service.DeleteUserRequest{UID: "x"})
	requireCallError(t, err, service.KindPermissionDenied, "Only admins can delete users")

	_, err = svc.DeleteUser(context.Background(), admin, service.DeleteUserRequest{UID: "  "})
	requireCallError(t, err, service.KindInvalidArgument, "User ID is required")

	require.Zero(t, idp.mutations())
	require.True(t, idp.has("x"))
	_, err = svc.Store.Users().Get(context.Background(), "x")
	require.NoError(t, err)
}

func TestDeleteUser_Success(t *testing.T) {
	ctx := context.Background()
	svc, idp := newAdminService(t)
	admin := seedUser(t, svc.Store, idp, "a1", domain.RoleAdmin)
	seedUser(t, svc.Store, idp, "x", "staff")

	res, err := svc.DeleteUser(ctx, admin, service.DeleteUserRequest{UID: "x"})
	require.NoError(t, err)
	require.Equal(t, "Successfully deleted user x", res.Message)

	require.False(t, idp.has("x"))
	_, err = svc.Store.Users().Get(ctx, "x")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUser_MissingAccountIsInternalAndKeepsDocument(t *testing.T) {
	ctx := context.Background()
	svc, idp := newAdminService(t)
	admin := seedUser(t, svc.Store, idp, "a1", domain.RoleAdmin)
	seedUser(t, svc.Store, idp, "x", "staff")
	require.NoError(t, idp.DeleteAccount(ctx, "x"))

	_, err := svc.DeleteUser(ctx, admin, service.DeleteUserRequest{UID: "x"})
	requireCallError(t, err, service.KindInternal, "Error deleting user")

	_, err = svc.Store.Users().Get(ctx, "x")
	require.NoError(t, err, "document deletion is rolled back")
}

func TestDeleteUser_LeavesApprovalRequest(t *testing.T) {
	ctx := context.Background()
	svc, idp := newAdminService(t)
	admin := seedUser(t, svc.Store, idp, "a1", domain.RoleAdmin)

	created, err := svc.CreateUser(ctx, admin, validCreate)
	require.NoError(t, err)

	_, err = svc.DeleteUser(ctx, admin, service.DeleteUserRequest{UID: created.UID})
	require.NoError(t, err)

	_, err = svc.Store.Approvals().Get(ctx, created.UID)
	require.NoError(t, err, "approval requests are cleaned up by reconciliation, not deleteUser")
}

func TestKindOf(t *testing.T) {
	require.Equal(t, service.KindInternal, service.KindOf(errors.New("x")))
	err := &service.CallError{Kind: service.KindInvalidArgument, Message: "m"}
	require.Equal(t, service.KindInvalidArgument, service.KindOf(err))
	require.True(t, errors.Is(err, service.ErrInvalidArgument))
	require.False(t, errors.Is(err, service.ErrInternal))
}
