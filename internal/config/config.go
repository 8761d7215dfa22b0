// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver selects the redemption ledger backend: "memory", "postgres",
	// "mysql", "sqlite3" or "mongodb".
	DBDriver string
	// DBConnectionString is the connection string (or URI) for the ledger backend.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration
	// DBConnectTimeout bounds the retry loop that waits for the database at startup.
	DBConnectTimeout time.Duration
	// MongoDatabase is the database name used by the "mongodb" driver.
	MongoDatabase string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// AuthSigningKey is the base64 master secret both signing keys are derived from.
	// When KMSKeyURI is set it holds the KMS ciphertext instead.
	AuthSigningKey string
	// AuthIssuer is the "iss" claim stamped on every token.
	AuthIssuer string
	// LoginTokenTTL is the lifetime of a sign-in link.
	LoginTokenTTL time.Duration
	// SessionTTL is the lifetime of a session credential.
	SessionTTL time.Duration
	// PublicBaseURL is the externally reachable origin used to build sign-in links.
	PublicBaseURL string
	// AuthCallbackPath is the path the sign-in link points at.
	AuthCallbackPath string
	// AuthRedirectURL is where the callback redirects after a successful sign-in.
	// An empty value makes the callback answer with JSON instead.
	AuthRedirectURL string
	// SessionCookieName is the name of the session cookie.
	SessionCookieName string
	// SessionCookieSecure sets the Secure attribute on the session cookie.
	SessionCookieSecure bool
	// SessionCookieDomain is the optional Domain attribute of the session cookie.
	SessionCookieDomain string
	// LedgerPruneInterval is how often expired redemptions are pruned. Zero disables pruning.
	LedgerPruneInterval time.Duration

	// MailDriver selects the mail transport: "log", "smtp" or "http".
	MailDriver string
	// MailFrom is the sender address.
	MailFrom string
	// MailSiteName is shown in the message subject and body.
	MailSiteName string
	// MailTimeout bounds a single delivery attempt.
	MailTimeout time.Duration
	// SMTPHost is the SMTP relay host.
	SMTPHost string
	// SMTPPort is the SMTP relay port.
	SMTPPort int
	// SMTPUsername is the SMTP auth user. Empty disables auth.
	SMTPUsername string
	// SMTPPassword is the SMTP auth password.
	SMTPPassword string
	// MailAPIURL is the endpoint of the JSON mail API used by the "http" driver.
	MailAPIURL string
	// MailAPIKey is sent as a bearer token to the mail API.
	MailAPIKey string

	// StorageDriver selects the content store: "github" or "blob".
	StorageDriver string
	// StorageRoot is the prefix under which every subject namespace lives.
	StorageRoot string
	// StorageTimeout bounds a single content store call.
	StorageTimeout time.Duration
	// GitHubAPIURL is the base URL of the GitHub REST API.
	GitHubAPIURL string
	// GitHubToken is the token used against the contents API.
	GitHubToken string
	// GitHubOwner is the repository owner.
	GitHubOwner string
	// GitHubRepo is the repository name.
	GitHubRepo string
	// GitHubBranch is the branch files are committed to. Empty uses the default branch.
	GitHubBranch string
	// GitHubCommitterName is the committer name recorded on every change.
	GitHubCommitterName string
	// GitHubCommitterEmail is the committer email recorded on every change.
	GitHubCommitterEmail string
	// BlobBucketURL is the gocloud.dev bucket URL used by the "blob" driver.
	BlobBucketURL string
	// UploadMaxBytes is the largest accepted upload.
	UploadMaxBytes int64
	// UploadAllowedExtensions is the comma-separated list of accepted file extensions.
	UploadAllowedExtensions []string

	// RateLimitEnabled indicates whether rate limiting for authenticated endpoints is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per subject.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for authenticated endpoints rate limiting.
	RateLimitBurst int

	// RateLimitAccessEnabled indicates whether rate limiting for the request-access endpoint is enabled.
	RateLimitAccessEnabled bool
	// RateLimitAccessRequestsPerSec is the number of requests allowed per second per IP.
	RateLimitAccessRequestsPerSec float64
	// RateLimitAccessBurst is the burst size for the request-access endpoint.
	RateLimitAccessBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// KMSProvider is the KMS provider to use (e.g., "localsecrets", "gcpkms", "awskms").
	KMSProvider string
	// KMSKeyURI is the URI of the key that wraps AuthSigningKey.
	KMSKeyURI string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Ledger configuration
		DBDriver:             env.GetString("DB_DRIVER", "memory"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", ""),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),
		DBConnectTimeout:     env.GetDuration("DB_CONNECT_TIMEOUT_SECONDS", 30, time.Second),
		MongoDatabase:        env.GetString("MONGO_DATABASE", "linkvault"),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Auth
		AuthSigningKey:      env.GetString("AUTH_SIGNING_KEY", ""),
		AuthIssuer:          env.GetString("AUTH_ISSUER", "linkvault"),
		LoginTokenTTL:       env.GetDuration("LOGIN_TOKEN_TTL_SECONDS", 900, time.Second),
		SessionTTL:          env.GetDuration("SESSION_TTL_SECONDS", 21600, time.Second),
		PublicBaseURL:       env.GetString("PUBLIC_BASE_URL", "http://localhost:8080"),
		AuthCallbackPath:    env.GetString("AUTH_CALLBACK_PATH", "/v1/auth/callback"),
		AuthRedirectURL:     env.GetString("AUTH_REDIRECT_URL", ""),
		SessionCookieName:   env.GetString("SESSION_COOKIE_NAME", "linkvault_session"),
		SessionCookieSecure: env.GetBool("SESSION_COOKIE_SECURE", true),
		SessionCookieDomain: env.GetString("SESSION_COOKIE_DOMAIN", ""),
		LedgerPruneInterval: env.GetDuration("LEDGER_PRUNE_INTERVAL_SECONDS", 600, time.Second),

		// Mail
		MailDriver:   env.GetString("MAIL_DRIVER", "log"),
		MailFrom:     env.GetString("MAIL_FROM", "no-reply@localhost"),
		MailSiteName: env.GetString("MAIL_SITE_NAME", "Linkvault"),
		MailTimeout:  env.GetDuration("MAIL_TIMEOUT_SECONDS", 10, time.Second),
		SMTPHost:     env.GetString("SMTP_HOST", "localhost"),
		SMTPPort:     env.GetInt("SMTP_PORT", 587),
		SMTPUsername: env.GetString("SMTP_USERNAME", ""),
		SMTPPassword: env.GetString("SMTP_PASSWORD", ""),
		MailAPIURL:   env.GetString("MAIL_API_URL", ""),
		MailAPIKey:   env.GetString("MAIL_API_KEY", ""),

		// Storage
		StorageDriver:        env.GetString("STORAGE_DRIVER", "blob"),
		StorageRoot:          env.GetString("STORAGE_ROOT", "users"),
		StorageTimeout:       env.GetDuration("STORAGE_TIMEOUT_SECONDS", 10, time.Second),
		GitHubAPIURL:         env.GetString("GITHUB_API_URL", "https://api.github.com"),
		GitHubToken:          env.GetString("GITHUB_TOKEN", ""),
		GitHubOwner:          env.GetString("GITHUB_OWNER", ""),
		GitHubRepo:           env.GetString("GITHUB_REPO", ""),
		GitHubBranch:         env.GetString("GITHUB_BRANCH", ""),
		GitHubCommitterName:  env.GetString("GITHUB_COMMITTER_NAME", "linkvault"),
		GitHubCommitterEmail: env.GetString("GITHUB_COMMITTER_EMAIL", "linkvault@localhost"),
		BlobBucketURL:        env.GetString("BLOB_BUCKET_URL", "mem://"),
		UploadMaxBytes:       int64(env.GetInt("UPLOAD_MAX_BYTES", 10<<20)),
		UploadAllowedExtensions: ParseList(
			env.GetString("UPLOAD_ALLOWED_EXTENSIONS", ".txt,.md,.pdf,.png,.jpg,.jpeg,.gif,.csv,.json"),
		),

		// Rate Limiting (authenticated endpoints)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// Rate Limiting for request-access (IP-based, unauthenticated)
		RateLimitAccessEnabled:        env.GetBool("RATE_LIMIT_ACCESS_ENABLED", true),
		RateLimitAccessRequestsPerSec: env.GetFloat64("RATE_LIMIT_ACCESS_REQUESTS_PER_SEC", 0.2),
		RateLimitAccessBurst:          env.GetInt("RATE_LIMIT_ACCESS_BURST", 5),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "linkvault"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// KMS configuration
		KMSProvider: env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// ParseList splits a comma-separated value, trimming blanks and dropping empty items.
func ParseList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
