package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Backends.
const (
	BackendLocal    = "local"
	BackendFirebase = "firebase"
)

type Config struct {
	Backend        string // local or firebase (default: local)
	BootstrapToken string // Optional: token required to perform bootstrap

	// local backend
	DatabaseFile         string        // Document database (default: ./lunch.db)
	IdentityDatabaseFile string        // Account database (default: ./identity.db)
	PepperFile           string        // Password hashing pepper (default: ./pepper)
	Issuer               string        // iss claim of local ID tokens (default: lunch-admin)
	TokenTTL             time.Duration // Local ID token lifetime (default: 1h)
	KeyRotationInterval  time.Duration // 0 disables rotation of local signing keys

	// firebase backend
	FirebaseProjectID       string
	FirebaseCredentialsFile string // Optional: application default credentials otherwise

	ReconcileInterval time.Duration // default: 1h
	ReconcileRepair   bool          // delete drifted records instead of only reporting them

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Backend:        strings.ToLower(getEnvOrDefault("LUNCH_BACKEND", BackendLocal)),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		DatabaseFile:         getEnvOrDefault("LUNCH_DATABASE_FILE", "lunch.db"),
		IdentityDatabaseFile: getEnvOrDefault("LUNCH_IDENTITY_DATABASE_FILE", "identity.db"),
		PepperFile:           getEnvOrDefault("LUNCH_PEPPER_FILE", "pepper"),
		Issuer:               getEnvOrDefault("LUNCH_ISSUER", "lunch-admin"),
		TokenTTL:             getEnvDurationOrDefault("LUNCH_TOKEN_TTL", time.Hour),
		KeyRotationInterval:  getEnvDurationOrDefault("LUNCH_KEY_ROTATION_INTERVAL", 0),

		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),

		ReconcileInterval: getEnvDurationOrDefault("RECONCILE_INTERVAL", time.Hour),
		ReconcileRepair:   getEnvBoolOrDefault("RECONCILE_REPAIR", false),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
