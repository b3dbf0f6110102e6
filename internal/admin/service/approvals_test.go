package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/service"
	"github.com/stretchr/testify/require"
)

type approvalFixture struct {
	admins    *service.AdminService
	approvals *service.ApprovalService
	idp       *fakeIdentity
	admin     *domain.Caller
}

func newApprovalFixture(t *testing.T) approvalFixture {
	t.Helper()
	st := newStore(t)
	idp := newFakeIdentity()
	return approvalFixture{
		admins:    &service.AdminService{Store: st, Identity: idp, Now: clock},
		approvals: &service.ApprovalService{Store: st, Now: clock},
		idp:       idp,
		admin:     seedUser(t, st, idp, "A", domain.RoleAdmin),
	}
}

func (f approvalFixture) createManager(t *testing.T, email string) string {
	t.Helper()
	req := validCreate
	req.Email = email
	res, err := f.admins.CreateUser(context.Background(), f.admin, req)
	require.NoError(t, err)
	return res.UID
}

func TestListApprovals(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t)

	res, err := f.approvals.ListApprovals(ctx, f.admin, service.ListApprovalsRequest{})
	require.NoError(t, err)
	require.NotNil(t, res.Approvals)
	require.Empty(t, res.Approvals)

	first := f.createManager(t, "one@x.com")
	f.createManager(t, "two@x.com")

	_, err = f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{UID: first, Decision: "rejected"})
	require.NoError(t, err)

	res, err = f.approvals.ListApprovals(ctx, f.admin, service.ListApprovalsRequest{})
	require.NoError(t, err)
	require.Len(t, res.Approvals, 2)

	res, err = f.approvals.ListApprovals(ctx, f.admin, service.ListApprovalsRequest{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, res.Approvals, 1)
	require.Equal(t, "two@x.com", res.Approvals[0].Email)

	_, err = f.approvals.ListApprovals(ctx, f.admin, service.ListApprovalsRequest{Status: "maybe"})
	requireCallError(t, err, service.KindInvalidArgument, "Invalid approval status")
}

func TestListApprovals_RequiresAdmin(t *testing.T) {
	f := newApprovalFixture(t)
	staff := seedUser(t, f.approvals.Store, f.idp, "s1", "staff")

	_, err := f.approvals.ListApprovals(context.Background(), nil, service.ListApprovalsRequest{})
	require.ErrorIs(t, err, service.ErrUnauthenticated)

	_, err = f.approvals.ListApprovals(context.Background(), staff, service.ListApprovalsRequest{})
	requireCallError(t, err, service.KindPermissionDenied, "Only admins can list approvals")
}

func TestReviewApproval_ApproveEnablesUser(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t)
	uid := f.createManager(t, "m@x.com")

	res, err := f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{
		UID: uid, Decision: "approved", Notes: "welcome aboard",
	})
	require.NoError(t, err)
	require.Equal(t, service.ReviewApprovalResult{UID: uid, Status: domain.ApprovalApproved}, res)

	a, err := f.approvals.Store.Approvals().Get(ctx, uid)
	require.NoError(t, err)
	require.Equal(t, domain.ApprovalApproved, a.Status)
	require.Equal(t, "welcome aboard", a.Notes)
	require.NotNil(t, a.ReviewedBy)
	require.Equal(t, "A", *a.ReviewedBy)
	require.NotNil(t, a.ReviewedAt)
	require.True(t, a.ReviewedAt.Equal(fixedNow))

	u, err := f.approvals.Store.Users().Get(ctx, uid)
	require.NoError(t, err)
	require.False(t, u.Disabled)
	require.False(t, u.PendingApproval)
	require.Equal(t, "A", u.UpdatedBy)
}

func TestReviewApproval_RejectKeepsUserDisabled(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t)
	uid := f.createManager(t, "m@x.com")

	_, err := f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{UID: uid, Decision: "rejected"})
	require.NoError(t, err)

	a, err := f.approvals.Store.Approvals().Get(ctx, uid)
	require.NoError(t, err)
	require.Equal(t, domain.ApprovalRejected, a.Status)
	require.Equal(t, domain.CreatedByAdminNote, a.Notes)

	u, err := f.approvals.Store.Users().Get(ctx, uid)
	require.NoError(t, err)
	require.True(t, u.Disabled)
	require.True(t, u.PendingApproval)
}

func TestReviewApproval_Validation(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t)
	staff := seedUser(t, f.approvals.Store, f.idp, "s1", "staff")
	uid := f.createManager(t, "m@x.com")

	_, err := f.approvals.ReviewApproval(ctx, staff, service.ReviewApprovalRequest{UID: uid, Decision: "approved"})
	requireCallError(t, err, service.KindPermissionDenied, "Only admins can review approvals")

	_, err = f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{Decision: "approved"})
	requireCallError(t, err, service.KindInvalidArgument, "User ID is required")

	_, err = f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{UID: uid, Decision: "pending"})
	requireCallError(t, err, service.KindInvalidArgument, "Decision must be approved or rejected")

	_, err = f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{UID: "nobody", Decision: "approved"})
	requireCallError(t, err, service.KindInvalidArgument, "Approval request not found")

	_, err = f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{UID: uid, Decision: "rejected"})
	require.NoError(t, err)
	_, err = f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{UID: uid, Decision: "approved"})
	requireCallError(t, err, service.KindInvalidArgument, "Approval request already reviewed")

	u, err := f.approvals.Store.Users().Get(ctx, uid)
	require.NoError(t, err)
	require.True(t, u.Disabled, "a second review must not enable the user")
}

func TestReviewApproval_MissingUserDocumentRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture(t)
	uid := f.createManager(t, "m@x.com")
	require.NoError(t, f.approvals.Store.Users().Delete(ctx, uid))

	_, err := f.approvals.ReviewApproval(ctx, f.admin, service.ReviewApprovalRequest{UID: uid, Decision: "approved"})
	requireCallError(t, err, service.KindInternal, "Error reviewing approval")

	a, err := f.approvals.Store.Approvals().Get(ctx, uid)
	require.NoError(t, err)
	require.Equal(t, domain.ApprovalPending, a.Status)
}

func TestReviewApproval_StoreFailure(t *testing.T) {
	f := newApprovalFixture(t)
	boom := errors.New("unavailable")
	svc := &service.ApprovalService{Store: &faultyStore{Store: f.approvals.Store, txErr: boom}, Now: clock}

	_, err := svc.ReviewApproval(context.Background(), f.admin, service.ReviewApprovalRequest{UID: "x", Decision: "approved"})
	requireCallError(t, err, service.KindInternal, "Error reviewing approval")
	require.ErrorIs(t, err, boom)
}
