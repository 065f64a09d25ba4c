// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: kitanda-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Object storage for product images (S3-compatible)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string
	StorageUseSSL    bool
	StoragePublicURL string // CDN/proxy URL override for returned image links

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://kitanda.app" or "http://localhost:3000"

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging settings
	AuditLogAuth  string // "all" (db+log), "db", "log", or "off"
	AuditLogAdmin string

	// Notification pruning
	NotificationTTLDays int // read notifications older than this are deleted

	// Admin bootstrap
	AdminEmail string // email promoted to admin on startup
}
