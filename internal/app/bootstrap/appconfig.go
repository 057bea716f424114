// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings: ports, TLS, logging, CORS and body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Admin session (JWT in an httponly cookie)
	JWTSecret         string        // HS256 signing secret; at least 32 characters in production
	SessionCookieName string        // Cookie name (default: pesantren_session)
	SessionDomain     string        // Cookie domain (blank means current host)
	SessionTTL        time.Duration // Token lifetime (default: 8h)

	// First admin account, created on startup when no account has this email
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Cloudinary media storage; uploads are disabled when any credential is blank
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string // Base folder for every upload (e.g., "pesantren")

	// Midtrans Snap checkout for public donations; disabled without a server key
	MidtransServerKey  string
	MidtransProduction bool

	// Admin summary cache lifetime
	SummaryCacheTTL time.Duration

	// Public form limits, per client IP and RateLimitWindow
	ContactRateLimit    int // contact messages
	SubmissionRateLimit int // testimonials, donations and event registrations
	RateLimitWindow     time.Duration
}

// MediaEnabled reports whether all Cloudinary credentials are set.
func (c AppConfig) MediaEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// PaymentsEnabled reports whether a Midtrans server key is set.
func (c AppConfig) PaymentsEnabled() bool {
	return c.MidtransServerKey != ""
}
