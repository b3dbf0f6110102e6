package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/lunch/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"LUNCH_BACKEND", "PORT", "RECONCILE_INTERVAL", "RECONCILE_REPAIR", "LUNCH_TOKEN_TTL"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	require.Equal(t, BackendLocal, cfg.Backend)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, time.Hour, cfg.ReconcileInterval)
	require.False(t, cfg.ReconcileRepair)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, "identity.db", cfg.IdentityDatabaseFile)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LUNCH_BACKEND", "Firebase")
	t.Setenv("PORT", "9090")
	t.Setenv("RECONCILE_INTERVAL", "15")
	t.Setenv("RECONCILE_REPAIR", "true")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "3s")
	t.Setenv("LUNCH_KEY_ROTATION_INTERVAL", "not-a-duration")

	cfg := LoadConfig()
	require.Equal(t, BackendFirebase, cfg.Backend)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.ReconcileInterval)
	require.True(t, cfg.ReconcileRepair)
	require.Equal(t, 3*time.Second, cfg.ShutdownGracePeriod)
	require.Zero(t, cfg.KeyRotationInterval)
}

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Backend:              BackendLocal,
		DatabaseFile:         filepath.Join(dir, "lunch.db"),
		IdentityDatabaseFile: filepath.Join(dir, "identity.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		Issuer:               "lunch-test",
		TokenTTL:             time.Minute,
		ReconcileInterval:    time.Hour,
		Env:                  "test",
		LogFormat:            "text",
		LogLevel:             "error",
		ShutdownGracePeriod:  time.Second,
	}
}

func TestNew_LocalBackend(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Shutdown()) })

	require.NotNil(t, a.backend.local)
	require.Nil(t, a.keyRotation)

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/.well-known/jwks.json")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = "mongo"
	_, err := New(cfg)
	require.ErrorContains(t, err, `unknown backend "mongo"`)
}

type countingRotator struct{ n atomic.Int32 }

func (c *countingRotator) RotateKeys() error {
	c.n.Add(1)
	return nil
}

func TestKeyRotator(t *testing.T) {
	keys := &countingRotator{}
	k := newKeyRotator(keys, 10*time.Millisecond, slogx.Discard())
	k.Start()
	require.Eventually(t, func() bool { return keys.n.Load() >= 2 }, time.Second, 5*time.Millisecond)
	k.Stop()
}
