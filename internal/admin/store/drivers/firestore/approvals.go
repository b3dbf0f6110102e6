package firestore

import (
	"context"
	"slices"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/aussiebroadwan/lunch/internal/admin/domain"
)

type approvalsRepo struct {
	col *firestore.CollectionRef
	ops ops
}

func decodeApproval(snap *firestore.DocumentSnapshot) (domain.ApprovalRequest, error) {
	return decodeApprovalData(snap.Ref.ID, snap.Data())
}

func (r *approvalsRepo) Get(ctx context.Context, uid string) (domain.ApprovalRequest, error) {
	snap, err := r.ops.get(ctx, r.col.Doc(uid))
	if err != nil {
		return domain.ApprovalRequest{}, mapNotFound(err)
	}
	return decodeApproval(snap)
}

func (r *approvalsRepo) Create(ctx context.Context, a domain.ApprovalRequest) error {
	return r.ops.set(ctx, r.col.Doc(a.UserID), encodeApproval(a))
}

func (r *approvalsRepo) Update(ctx context.Context, a domain.ApprovalRequest) error {
	return mapNotFound(r.ops.update(ctx, r.col.Doc(a.UserID), fieldUpdates(encodeApproval(a))))
}

func (r *approvalsRepo) Delete(ctx context.Context, uid string) error {
	return r.ops.delete(ctx, r.col.Doc(uid))
}

// List filters server-side and orders client-side, so no composite index
// on (status, requestTime) is needed.
func (r *approvalsRepo) List(ctx context.Context, status domain.ApprovalStatus) ([]domain.ApprovalRequest, error) {
	q := r.col.Query
	if status != "" {
		q = q.Where("status", "==", string(status))
	}
	out, err := collect(r.ops.documents(ctx, q), decodeApproval)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b domain.ApprovalRequest) int {
		if c := a.RequestTime.Compare(b.RequestTime); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	return out, nil
}
