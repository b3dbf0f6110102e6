package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/identity"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	"github.com/aussiebroadwan/lunch/internal/admin/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// fakeIdentity is an in-memory identity.Provider with failure injection.
type fakeIdentity struct {
	mu        sync.Mutex
	accounts  map[string]domain.Account
	next      int
	createErr error
	deleteErr error
	listErr   error
	creates   int
	deletes   int
}

var _ identity.Provider = (*fakeIdentity)(nil)

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: map[string]domain.Account{}}
}

func (f *fakeIdentity) CreateAccount(_ context.Context, email, _, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return "", f.createErr
	}
	for _, a := range f.accounts {
		if a.Email == email {
			return "", identity.ErrEmailExists
		}
	}
	f.next++
	uid := fmt.Sprintf("uid-%d", f.next)
	f.accounts[uid] = domain.Account{UID: uid, Email: email, DisplayName: displayName, CreatedAt: fixedNow.Add(-time.Hour)}
	return uid, nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.accounts[uid]; !ok {
		return identity.ErrAccountNotFound
	}
	delete(f.accounts, uid)
	return nil
}

func (f *fakeIdentity) GetAccount(_ context.Context, uid string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[uid]
	if !ok {
		return domain.Account{}, identity.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeIdentity) ListAccounts(context.Context) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeIdentity) VerifyToken(context.Context, string) (*domain.Caller, error) {
	return nil, identity.ErrInvalidToken
}

func (f *fakeIdentity) has(uid string) bool {
	_, err := f.GetAccount(context.Background(), uid)
	return err == nil
}

func (f *fakeIdentity) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates + f.deletes
}

// faultyStore wraps a real store and injects errors.
type faultyStore struct {
	store.Store
	txErr  error
	getErr error
}

func (f *faultyStore) WithTx(ctx context.Context, fn func(store.Repositories) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return f.Store.WithTx(ctx, fn)
}

func (f *faultyStore) Users() store.Users {
	if f.getErr != nil {
		return faultyUsers{Users: f.Store.Users(), getErr: f.getErr}
	}
	return f.Store.Users()
}

type faultyUsers struct {
	store.Users
	getErr error
}

func (f faultyUsers) Get(context.Context, string) (domain.User, error) {
	return domain.User{}, f.getErr
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

// seedUser writes a users document and a matching account.
func seedUser(t *testing.T, s store.Store, idp *fakeIdentity, uid, role string) *domain.Caller {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, domain.User{
		UID: uid, Email: uid + "@example.com", DisplayName: uid, Role: role,
		CreationTime: fixedNow, LastUpdated: fixedNow, CreatedBy: "admin", UpdatedBy: "admin",
	}))
	idp.mu.Lock()
	idp.accounts[uid] = domain.Account{UID: uid, Email: uid + "@example.com", CreatedAt: fixedNow.Add(-time.Hour)}
	idp.mu.Unlock()
	return &domain.Caller{UID: uid, Email: uid + "@example.com"}
}

func countDocs(t *testing.T, s store.Store) (users, approvals int) {
	t.Helper()
	u, err := s.Users().List(context.Background())
	require.NoError(t, err)
	a, err := s.Approvals().List(context.Background(), "")
	require.NoError(t, err)
	return len(u), len(a)
}
