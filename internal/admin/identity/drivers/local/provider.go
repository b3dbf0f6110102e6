// Package local is a development identity provider backed by its own
// sqlite database. It issues EdDSA-signed ID tokens from SignIn and
// verifies them in VerifyToken.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/lunch/internal/admin/domain"
	"github.com/aussiebroadwan/lunch/internal/admin/identity"
	"github.com/aussiebroadwan/lunch/internal/admin/identity/drivers/local/migrations"
	"github.com/aussiebroadwan/lunch/pkg/cryptox"
	"github.com/aussiebroadwan/lunch/pkg/idx"
	"github.com/aussiebroadwan/lunch/pkg/jwtx"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrInvalidCredentials = errors.New("local: invalid email or password")
	ErrAccountDisabled    = errors.New("local: account disabled")
)

// Audience is the aud claim of every token issued here.
const Audience = "lunch-admin"

type Options struct {
	DSN      string
	Issuer   string
	TokenTTL time.Duration
}

type Provider struct {
	db     *sql.DB
	keys   *jwtx.KeyManager
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var _ identity.Provider = (*Provider)(nil)

// dummyHash keeps SignIn timing similar for unknown emails.
var (
	dummyOnce sync.Once
	dummyHash string
)

func New(opts Options) (*Provider, error) {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = jwtx.DefaultIDTokenTTL
	}

	keys, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		VerifyOptions: jwtx.VerifyOptions{
			Issuer:   opts.Issuer,
			Audience: []string{Audience},
			Leeway:   30 * time.Second,
		},
	})
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", opts.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	return &Provider{
		db:     db,
		keys:   keys,
		issuer: opts.Issuer,
		ttl:    opts.TokenTTL,
		now:    time.Now,
	}, nil
}

func (p *Provider) Close() error { return p.db.Close() }

func (p *Provider) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// ApplyMigrations creates the accounts table.
func (p *Provider) ApplyMigrations() error {
	driver, err := migratesqlite.WithInstance(p.db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// JWKS publishes the public keys tokens are verified against.
func (p *Provider) JWKS() jwtx.JWKS { return p.keys.KeySet.PublicJWKS() }

// RotateKeys switches to a fresh signing key.
func (p *Provider) RotateKeys() error { return p.keys.Rotate() }

func (p *Provider) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	email = strings.TrimSpace(email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", identity.ErrInvalidEmail
	}
	if len(password) < identity.MinPasswordLength {
		return "", identity.ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("local: hash password: %w", err)
	}

	uid := idx.New().String()
	_, err = p.db.ExecContext(ctx, `INSERT INTO accounts
		(uid, email, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uid, email, displayName, hash, p.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", identity.ErrEmailExists
		}
		return "", fmt.Errorf("local: insert account: %w", err)
	}
	return uid, nil
}

func (p *Provider) DeleteAccount(ctx context.Context, uid string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM accounts WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("local: delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return identity.ErrAccountNotFound
	}
	return nil
}

const accountColumns = `uid, email, display_name, disabled, email_verified, created_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a       domain.Account
		created string
	)
	if err := row.Scan(&a.UID, &a.Email, &a.DisplayName, &a.Disabled, &a.EmailVerified, &created); err != nil {
		return domain.Account{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return domain.Account{}, fmt.Errorf("local: accounts.created_at: %w", err)
	}
	a.CreatedAt = t
	return a, nil
}

func (p *Provider) GetAccount(ctx context.Context, uid string) (domain.Account, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE uid = ?`, uid)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, identity.ErrAccountNotFound
	}
	return a, err
}

func (p *Provider) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at, uid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Provider) VerifyToken(_ context.Context, raw string) (*domain.Caller, error) {
	claims, err := p.keys.Verifier.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, identity.ErrInvalidToken
	}
	return &domain.Caller{UID: claims.Subject, Email: claims.Email}, nil
}

// SignInResult mirrors the fields of a managed provider's password sign-in
// response that callers need.
type SignInResult struct {
	UID       string `json:"localId"`
	Email     string `json:"email"`
	IDToken   string `json:"idToken"`
	ExpiresIn int64  `json:"expiresIn"`
}

// SignIn checks email and password and issues an ID token.
func (p *Provider) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	var (
		uid, name, hash string
		disabled        bool
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT uid, display_name, password_hash, disabled FROM accounts WHERE email = ?`,
		strings.TrimSpace(email),
	).Scan(&uid, &name, &hash, &disabled)
	if errors.Is(err, sql.ErrNoRows) {
		_ = cryptox.VerifyPassword(password, p.dummy())
		return SignInResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return SignInResult{}, fmt.Errorf("local: lookup account: %w", err)
	}

	if err := cryptox.VerifyPassword(password, hash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, err
	}
	if disabled {
		return SignInResult{}, ErrAccountDisabled
	}

	now := p.now().UTC()
	updates := `UPDATE accounts SET last_sign_in = ? WHERE uid = ?`
	args := []any{now.Format(time.RFC3339Nano), uid}
	if cryptox.NeedsRehash(hash) {
		if fresh, err := cryptox.HashPassword(password); err == nil {
			updates = `UPDATE accounts SET last_sign_in = ?, password_hash = ? WHERE uid = ?`
			args = []any{now.Format(time.RFC3339Nano), fresh, uid}
		}
	}
	if _, err := p.db.ExecContext(ctx, updates, args...); err != nil {
		return SignInResult{}, fmt.Errorf("local: record sign-in: %w", err)
	}

	token, err := p.keys.Sign(jwtx.NewIDClaims(uid, strings.TrimSpace(email), name, p.ttl, p.issuer, []string{Audience}, now))
	if err != nil {
		return SignInResult{}, fmt.Errorf("local: sign token: %w", err)
	}
	return SignInResult{
		UID:       uid,
		Email:     strings.TrimSpace(email),
		IDToken:   token,
		ExpiresIn: int64(p.ttl.Seconds()),
	}, nil
}

func (p *Provider) dummy() string {
	dummyOnce.Do(func() {
		dummyHash, _ = cryptox.HashPassword("not-a-real-password")
	})
	return dummyHash
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
