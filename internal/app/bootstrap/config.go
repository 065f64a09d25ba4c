// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Kitanda.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: KITANDA_MONGO_URI, KITANDA_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "kitanda", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "kitanda-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Object storage for product images (S3-compatible, e.g. MinIO)
	{Name: "storage_endpoint", Default: "", Desc: "S3-compatible endpoint (blank disables image uploads)"},
	{Name: "storage_access_key", Default: "", Desc: "Object storage access key"},
	{Name: "storage_secret_key", Default: "", Desc: "Object storage secret key"},
	{Name: "storage_bucket", Default: "kitanda-media", Desc: "Bucket for product images"},
	{Name: "storage_region", Default: "", Desc: "Object storage region"},
	{Name: "storage_use_ssl", Default: true, Desc: "Use TLS for object storage"},
	{Name: "storage_public_url", Default: "", Desc: "Public URL prefix for stored images (CDN/proxy)"},

	// Base URL for OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for OAuth callbacks"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Notification pruning
	{Name: "notification_ttl_days", Default: 30, Desc: "Read notifications older than this many days are pruned"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin user (promoted on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, KITANDA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "KITANDA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		StorageEndpoint:  appValues.String("storage_endpoint"),
		StorageAccessKey: appValues.String("storage_access_key"),
		StorageSecretKey: appValues.String("storage_secret_key"),
		StorageBucket:    appValues.String("storage_bucket"),
		StorageRegion:    appValues.String("storage_region"),
		StorageUseSSL:    appValues.Bool("storage_use_ssl"),
		StoragePublicURL: appValues.String("storage_public_url"),

		BaseURL: appValues.String("base_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		NotificationTTLDays: appValues.Int("notification_ttl_days"),

		AdminEmail: appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backends are connected.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.StorageEndpoint != "" && (appCfg.StorageAccessKey == "" || appCfg.StorageSecretKey == "") {
		return fmt.Errorf("storage_endpoint is set but storage credentials are missing")
	}

	if appCfg.NotificationTTLDays < 1 {
		return fmt.Errorf("notification_ttl_days must be at least 1")
	}

	return nil
}
