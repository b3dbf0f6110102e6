package app

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/aussiebroadwan/lunch/internal/admin/identity"
	"github.com/aussiebroadwan/lunch/internal/admin/identity/drivers/local"
	fbidentity "github.com/aussiebroadwan/lunch/internal/admin/identity/drivers/firebase"
	"github.com/aussiebroadwan/lunch/internal/admin/store"
	fsstore "github.com/aussiebroadwan/lunch/internal/admin/store/drivers/firestore"
	"github.com/aussiebroadwan/lunch/internal/admin/store/drivers/sqlite"
	"github.com/aussiebroadwan/lunch/pkg/cryptox"
)

// backend bundles the document store and identity provider of one
// deployment flavour.
type backend struct {
	store    store.Store
	identity identity.Provider
	local    *local.Provider // nil for firebase
	closers  []func() error
}

func (b *backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func sqliteDSN(file string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", file)
}

func openBackend(ctx context.Context, cfg Config) (*backend, error) {
	switch cfg.Backend {
	case BackendLocal:
		return openLocal(cfg)
	case BackendFirebase:
		return openFirebase(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown backend %q (want %s or %s)", cfg.Backend, BackendLocal, BackendFirebase)
}

func openLocal(cfg Config) (*backend, error) {
	cryptox.SetPepperPath(cfg.PepperFile)

	b := &backend{}

	st, err := sqlite.NewStore(sqliteDSN(cfg.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open document database: %w", err)
	}
	b.closers = append(b.closers, st.Close)
	if err := st.ApplyMigrations(); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to apply document migrations: %w", err)
	}

	idp, err := local.New(local.Options{
		DSN:      sqliteDSN(cfg.IdentityDatabaseFile),
		Issuer:   cfg.Issuer,
		TokenTTL: cfg.TokenTTL,
	})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to open identity database: %w", err)
	}
	b.closers = append(b.closers, idp.Close)
	if err := idp.ApplyMigrations(); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to apply identity migrations: %w", err)
	}

	b.store, b.identity, b.local = st, idp, idp
	return b, nil
}

func openFirebase(ctx context.Context, cfg Config) (*backend, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	fb, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase: %w", err)
	}

	authClient, err := fb.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	fsClient, err := fb.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	st := fsstore.New(fsClient)
	return &backend{
		store:    st,
		identity: fbidentity.New(authClient),
		closers:  []func() error{st.Close},
	}, nil
}
