// Package firestore stores users and approval requests in Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client *firestore.Client
}

var _ store.Store = (*Store)(nil)

// New wraps an existing client. The Store takes ownership and closes it.
func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Users() store.Users {
	return &usersRepo{col: s.client.Collection(store.CollectionUsers), ops: clientOps{}}
}

func (s *Store) Approvals() store.Approvals {
	return &approvalsRepo{col: s.client.Collection(store.CollectionApprovals), ops: clientOps{}}
}

// WithTx runs fn in a Firestore transaction limited to one attempt. Reads
// must precede writes inside fn.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Repositories) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(txRepos{client: s.client, ops: txOps{tx: tx}})
	}, firestore.MaxAttempts(1))
	return mapNotFound(err)
}

// ApplyMigrations is a no-op: collections are schemaless.
func (s *Store) ApplyMigrations() error { return nil }

// Ping issues a single-document read against users.
func (s *Store) Ping(ctx context.Context) error {
	iter := s.client.Collection(store.CollectionUsers).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore: ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }

type txRepos struct {
	client *firestore.Client
	ops    txOps
}

func (t txRepos) Users() store.Users {
	return &usersRepo{col: t.client.Collection(store.CollectionUsers), ops: t.ops}
}

func (t txRepos) Approvals() store.Approvals {
	return &approvalsRepo{col: t.client.Collection(store.CollectionApprovals), ops: t.ops}
}

// ops abstracts over direct document access and access through a
// transaction.
type ops interface {
	get(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error)
	set(ctx context.Context, ref *firestore.DocumentRef, data any) error
	update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error
	delete(ctx context.Context, ref *firestore.DocumentRef) error
	documents(ctx context.Context, q firestore.Query) *firestore.DocumentIterator
}

type clientOps struct{}

func (clientOps) get(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	return ref.Get(ctx)
}

func (clientOps) set(ctx context.Context, ref *firestore.DocumentRef, data any) error {
	_, err := ref.Set(ctx, data)
	return err
}

func (clientOps) update(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	_, err := ref.Update(ctx, updates)
	return err
}

func (clientOps) delete(ctx context.Context, ref *firestore.DocumentRef) error {
	_, err := ref.Delete(ctx)
	return err
}

func (clientOps) documents(ctx context.Context, q firestore.Query) *firestore.DocumentIterator {
	return q.Documents(ctx)
}

type txOps struct {
	tx *firestore.Transaction
}

func (o txOps) get(_ context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	return o.tx.Get(ref)
}

func (o txOps) set(_ context.Context, ref *firestore.DocumentRef, data any) error {
	return o.tx.Set(ref, data)
}

func (o txOps) update(_ context.Context, ref *firestore.DocumentRef, updates []firestore.Update) error {
	return o.tx.Update(ref, updates)
}

func (o txOps) delete(_ context.Context, ref *firestore.DocumentRef) error {
	return o.tx.Delete(ref)
}

func (o txOps) documents(_ context.Context, q firestore.Query) *firestore.DocumentIterator {
	return o.tx.Documents(q)
}

func mapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}
	return err
}

// collect drains iter, decoding each document with decode.
func collect[T any](iter *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	defer iter.Stop()

	var out []T
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		v, err := decode(snap)
		if err != nil {
			return nil, fmt.Errorf("firestore: decode %s: %w", snap.Ref.Path, err)
		}
		out = append(out, v)
	}
}
