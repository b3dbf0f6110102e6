package adminsdk

import "context"

func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (*CreateUserResponse, error) {
	res, err := call[CreateUserRequest, CreateUserResponse](ctx, s, "createUser", req)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Session) DeleteUser(ctx context.Context, uid string) (*DeleteUserResponse, error) {
	res, err := call[map[string]string, DeleteUserResponse](ctx, s, "deleteUser", map[string]string{"uid": uid})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListApprovals returns approval requests, filtered by status unless empty.
func (s *Session) ListApprovals(ctx context.Context, status string) ([]Approval, error) {
	res, err := call[map[string]string, ListApprovalsResponse](ctx, s, "listApprovals", map[string]string{"status": status})
	if err != nil {
		return nil, err
	}
	return res.Approvals, nil
}

func (s *Session) ReviewApproval(ctx context.Context, req ReviewApprovalRequest) (*ReviewApprovalResponse, error) {
	res, err := call[ReviewApprovalRequest, ReviewApprovalResponse](ctx, s, "reviewApproval", req)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Reconcile runs one reconciliation pass on the server.
func (s *Session) Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error) {
	res, err := call[map[string]bool, ReconcileReport](ctx, s, "reconcile", map[string]bool{"repair": repair})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
