package admin_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/lunch/pkg/adminsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared helpers for the admin service end-to-end
 * tests. The service runs with the local backend inside the container.
 */

const (
	testImageName = "lunch-admin-test:latest"

	bootstrapToken   = "test-bootstrap-token-12345"
	adminEmail       = "admin@example.com"
	adminDisplayName = "Administrator"
	adminPassword    = "Admin123!"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Admin Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Admin Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/admin/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// setupAdminContainer starts the service with relaxed rate limits and
// returns its base URL.
func setupAdminContainer(t *testing.T) string {
	t.Helper()
	return startContainer(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_CALLABLE_REQUESTS": "1000",
		"RATELIMIT_CALLABLE_BURST":    "1000",
	})
}

// setupAdminContainerWithDefaultRateLimits is for the rate limiting tests.
func setupAdminContainerWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_TOKEN": bootstrapToken,
		"LUNCH_ISSUER":    "lunch-e2e",
		"ENV":             "test",
		"LOG_LEVEL":       "info",
		"LOG_FORMAT":      "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// bootstrapAndSignIn creates the first admin and returns their session.
func bootstrapAndSignIn(t *testing.T, client *adminsdk.Client) *adminsdk.Session {
	t.Helper()
	ctx := t.Context()

	boot, err := client.Bootstrap(ctx, bootstrapToken, adminsdk.BootstrapRequest{
		Email:       adminEmail,
		Password:    adminPassword,
		DisplayName: adminDisplayName,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.NotEmpty(t, boot.UID)

	session, err := client.SignIn(ctx, adminEmail, adminPassword)
	require.NoError(t, err, "Admin sign-in should succeed")
	return session
}

// requireCode checks the callable error code of err.
func requireCode(t *testing.T, err error, code string) *adminsdk.Error {
	t.Helper()
	var apiErr *adminsdk.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code, "message: %s", apiErr.Message)
	return apiErr
}
