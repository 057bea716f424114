// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/system/authutil"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minJWTSecret is the shortest signing secret accepted in production.
const minJWTSecret = 32

// appConfigKeys defines the configuration keys for PesantrenHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: PESANTREN_MONGO_URI, PESANTREN_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "pesantren", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// Admin session
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session token signing secret (at least 32 characters in production)"},
	{Name: "session_cookie_name", Default: "pesantren_session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "8h", Desc: "Session lifetime (e.g., 8h, 30m)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the first admin (created on startup if absent)"},
	{Name: "admin_password", Default: "", Desc: "Password of the first admin"},
	{Name: "admin_name", Default: "Administrator", Desc: "Display name of the first admin"},

	// Cloudinary
	{Name: "cloudinary_cloud_name", Default: "", Desc: "Cloudinary cloud name"},
	{Name: "cloudinary_api_key", Default: "", Desc: "Cloudinary API key"},
	{Name: "cloudinary_api_secret", Default: "", Desc: "Cloudinary API secret"},
	{Name: "cloudinary_folder", Default: "pesantren", Desc: "Base folder for uploads"},

	// Midtrans
	{Name: "midtrans_server_key", Default: "", Desc: "Midtrans server key (blank disables online payment)"},
	{Name: "midtrans_production", Default: false, Desc: "Use the Midtrans production environment"},

	// Admin summary
	{Name: "summary_cache_ttl", Default: "30s", Desc: "How long the admin summary and dashboard are cached"},

	// Public form rate limits
	{Name: "contact_rate_limit", Default: 5, Desc: "Contact messages allowed per IP per rate_limit_window"},
	{Name: "submission_rate_limit", Default: 10, Desc: "Testimonials, donations and event registrations allowed per IP per rate_limit_window"},
	{Name: "rate_limit_window", Default: "1h", Desc: "Window for the public form rate limits"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, PESANTREN_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PESANTREN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:         appValues.String("jwt_secret"),
		SessionCookieName: appValues.String("session_cookie_name"),
		SessionDomain:     appValues.String("session_domain"),
		SessionTTL:        appValues.Duration("session_ttl", 8*time.Hour),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),

		CloudinaryCloudName: appValues.String("cloudinary_cloud_name"),
		CloudinaryAPIKey:    appValues.String("cloudinary_api_key"),
		CloudinaryAPISecret: appValues.String("cloudinary_api_secret"),
		CloudinaryFolder:    appValues.String("cloudinary_folder"),

		MidtransServerKey:  appValues.String("midtrans_server_key"),
		MidtransProduction: appValues.Bool("midtrans_production"),

		SummaryCacheTTL: appValues.Duration("summary_cache_ttl", 30*time.Second),

		ContactRateLimit:    appValues.Int("contact_rate_limit"),
		SubmissionRateLimit: appValues.Int("submission_rate_limit"),
		RateLimitWindow:     appValues.Duration("rate_limit_window", time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It checks the MongoDB URI format before any connection is attempted,
// enforces a strong signing secret in production, and rejects a
// half-configured Cloudinary or admin seed.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

func validateApp(env string, c AppConfig) error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if env == "prod" && len(c.JWTSecret) < minJWTSecret {
		return fmt.Errorf("jwt_secret must be at least %d characters in production", minJWTSecret)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}

	set := 0
	for _, v := range []string{c.CloudinaryCloudName, c.CloudinaryAPIKey, c.CloudinaryAPISecret} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("cloudinary_cloud_name, cloudinary_api_key and cloudinary_api_secret must be set together")
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}
	if c.AdminPassword != "" {
		if err := authutil.ValidatePassword(c.AdminPassword); err != nil {
			return fmt.Errorf("admin_password: %w (%s)", err, authutil.PasswordRules())
		}
	}

	if c.ContactRateLimit < 1 || c.SubmissionRateLimit < 1 {
		return fmt.Errorf("contact_rate_limit and submission_rate_limit must be at least 1")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate_limit_window must be positive")
	}
	return nil
}
