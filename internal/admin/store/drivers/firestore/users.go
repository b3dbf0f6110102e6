package firestore

import (
	"context"
	"slices"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/aussiebroadwan/lunch/internal/admin/domain"
)

type usersRepo struct {
	col *firestore.CollectionRef
	ops ops
}

func decodeUser(snap *firestore.DocumentSnapshot) (domain.User, error) {
	return decodeUserData(snap.Ref.ID, snap.Data())
}

func (r *usersRepo) Get(ctx context.Context, uid string) (domain.User, error) {
	snap, err := r.ops.get(ctx, r.col.Doc(uid))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return decodeUser(snap)
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	return r.ops.set(ctx, r.col.Doc(u.UID), encodeUser(u))
}

// Update writes every field with a field-path update, which fails with
// NotFound when the document is absent without needing a prior read.
func (r *usersRepo) Update(ctx context.Context, u domain.User) error {
	return mapNotFound(r.ops.update(ctx, r.col.Doc(u.UID), fieldUpdates(encodeUser(u))))
}

func (r *usersRepo) Delete(ctx context.Context, uid string) error {
	return r.ops.delete(ctx, r.col.Doc(uid))
}

// List reads the whole collection and orders client-side. A server-side
// OrderBy would leave out documents without the ordering field.
func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	out, err := collect(r.ops.documents(ctx, r.col.Query), decodeUser)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b domain.User) int {
		if c := a.CreationTime.Compare(b.CreationTime); c != 0 {
			return c
		}
		return strings.Compare(a.UID, b.UID)
	})
	return out, nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	docs, err := collect(r.ops.documents(ctx, r.col.Limit(1)), func(s *firestore.DocumentSnapshot) (string, error) {
		return s.Ref.ID, nil
	})
	if err != nil {
		return false, err
	}
	return len(docs) == 0, nil
}
