// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	blogfeature "github.com/dalemusser/pesantrenhub/internal/app/features/blog"
	campaignsfeature "github.com/dalemusser/pesantrenhub/internal/app/features/campaigns"
	contactfeature "github.com/dalemusser/pesantrenhub/internal/app/features/contact"
	dashboardfeature "github.com/dalemusser/pesantrenhub/internal/app/features/dashboard"
	donationsfeature "github.com/dalemusser/pesantrenhub/internal/app/features/donations"
	eventsfeature "github.com/dalemusser/pesantrenhub/internal/app/features/events"
	galleryfeature "github.com/dalemusser/pesantrenhub/internal/app/features/gallery"
	healthfeature "github.com/dalemusser/pesantrenhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/pesantrenhub/internal/app/features/login"
	newsfeature "github.com/dalemusser/pesantrenhub/internal/app/features/news"
	testimonialsfeature "github.com/dalemusser/pesantrenhub/internal/app/features/testimonials"
	uploadfeature "github.com/dalemusser/pesantrenhub/internal/app/features/upload"
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/app/system/media"
	"github.com/dalemusser/pesantrenhub/internal/app/system/payments"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. PesantrenHub builds the session manager
// and the optional media and payment backends, then mounts the public API
// under /api, the session endpoints under /api/auth and the staff API under
// /api/admin.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.JWTSecret, appCfg.SessionCookieName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	mediaStore, err := newMediaStore(appCfg)
	if err != nil {
		logger.Error("media store init failed", zap.Error(err))
		return nil, err
	}
	gateway := newGateway(appCfg)

	db := deps.MongoDatabase
	newsHandler := newsfeature.NewHandler(db, mediaStore, logger)
	blogHandler := blogfeature.NewHandler(db, mediaStore, logger)
	eventsHandler := eventsfeature.NewHandler(db, mediaStore, submissionLimiter(appCfg), logger)
	galleryHandler := galleryfeature.NewHandler(db, mediaStore, logger)
	testimonialsHandler := testimonialsfeature.NewHandler(db, mediaStore, submissionLimiter(appCfg), logger)
	campaignsHandler := campaignsfeature.NewHandler(db, mediaStore, logger)
	donationsHandler := donationsfeature.NewHandler(db, gateway, submissionLimiter(appCfg), logger)
	contactHandler := contactfeature.NewHandler(db, ratelimit.New(appCfg.ContactRateLimit, appCfg.RateLimitWindow), logger)
	loginHandler := loginfeature.NewHandler(db, sessionMgr, ratelimit.NewLoginLimiter(), logger)
	dashboardHandler := dashboardfeature.NewHandler(db, dashboardfeature.NewCache(appCfg.SummaryCacheTTL), logger)
	uploadHandler := uploadfeature.NewHandler(mediaStore, logger)
	healthHandler := healthfeature.NewHandler(deps.MongoClient, healthfeature.Integrations{
		Media:    appCfg.MediaEnabled(),
		Payments: appCfg.PaymentsEnabled(),
	}, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if a valid
	// token is present, via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusNotFound, "Route not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		// Public site
		api.Mount("/news", newsfeature.PublicRoutes(newsHandler))
		api.Mount("/blog", blogfeature.PublicRoutes(blogHandler))
		api.Mount("/events", eventsfeature.PublicRoutes(eventsHandler))
		api.Mount("/gallery", galleryfeature.PublicRoutes(galleryHandler))
		api.Mount("/testimonials", testimonialsfeature.PublicRoutes(testimonialsHandler))
		api.Mount("/campaigns", campaignsfeature.PublicRoutes(campaignsHandler))
		api.Mount("/donations", donationsfeature.PublicRoutes(donationsHandler))
		api.Mount("/contact", contactfeature.PublicRoutes(contactHandler))

		// Authentication
		api.Mount("/auth", loginfeature.Routes(loginHandler))

		// Staff API; each router applies its own role checks.
		api.Route("/admin", func(admin chi.Router) {
			admin.Mount("/news", newsfeature.AdminRoutes(newsHandler, sessionMgr))
			admin.Mount("/blog", blogfeature.AdminRoutes(blogHandler, sessionMgr))
			admin.Mount("/events", eventsfeature.AdminRoutes(eventsHandler, sessionMgr))
			admin.Mount("/gallery", galleryfeature.AdminRoutes(galleryHandler, sessionMgr))
			admin.Mount("/testimonials", testimonialsfeature.AdminRoutes(testimonialsHandler, sessionMgr))
			admin.Mount("/campaigns", campaignsfeature.AdminRoutes(campaignsHandler, sessionMgr))
			admin.Mount("/donations", donationsfeature.AdminRoutes(donationsHandler, sessionMgr))
			admin.Mount("/contacts", contactfeature.AdminRoutes(contactHandler, sessionMgr))
			admin.Mount("/upload", uploadfeature.Routes(uploadHandler, sessionMgr))
			admin.Mount("/", dashboardfeature.Routes(dashboardHandler, sessionMgr))
		})
	})

	return r, nil
}

func submissionLimiter(appCfg AppConfig) *ratelimit.Limiter {
	return ratelimit.New(appCfg.SubmissionRateLimit, appCfg.RateLimitWindow)
}

func newMediaStore(appCfg AppConfig) (media.Store, error) {
	if !appCfg.MediaEnabled() {
		return media.Disabled{}, nil
	}
	return media.NewCloudinary(appCfg.CloudinaryCloudName, appCfg.CloudinaryAPIKey, appCfg.CloudinaryAPISecret, appCfg.CloudinaryFolder)
}

func newGateway(appCfg AppConfig) payments.Gateway {
	if !appCfg.PaymentsEnabled() {
		return payments.Disabled{}
	}
	return payments.NewSnap(appCfg.MidtransServerKey, appCfg.MidtransProduction)
}
