// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/pesantrenhub/internal/app/store/metrics"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ttlcache"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Cache keys, one per endpoint.
const (
	summaryKey   = "summary"
	dashboardKey = "dashboard"
)

// DefaultTTL is how long a composed payload is served from cache. Content
// writes do not invalidate it, so counts may lag by up to one TTL.
const DefaultTTL = 30 * time.Second

// Cache holds composed payloads by endpoint.
type Cache = ttlcache.Cache[string, any]

// NewCache returns a cache for the summary endpoints.
func NewCache(ttl time.Duration) *Cache {
	return ttlcache.New[string, any](ttl)
}

type Handler struct {
	DB    *mongo.Database
	Cache *Cache
	Now   func() time.Time
	Log   *zap.Logger
}

// NewHandler uses a DefaultTTL cache when cache is nil.
func NewHandler(db *mongo.Database, cache *Cache, logger *zap.Logger) *Handler {
	if cache == nil {
		cache = NewCache(DefaultTTL)
	}
	return &Handler{DB: db, Cache: cache, Now: time.Now, Log: logger}
}

// ServeSummary handles GET /api/admin/summary.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, summaryKey, func(ctx context.Context) (any, error) {
		return metricsstore.FetchSummary(ctx, h.DB, h.Log)
	})
}

// ServeDashboard handles GET /api/admin/dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, dashboardKey, func(ctx context.Context) (any, error) {
		return metricsstore.FetchDashboard(ctx, h.DB, h.Log, h.Now().UTC())
	})
}

func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, fetch func(context.Context) (any, error)) {
	if v, ok := h.Cache.Get(key); ok {
		respond.JSON(w, http.StatusOK, respond.Envelope{Success: true, Data: v, Cached: true})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	v, err := fetch(ctx)
	if err != nil {
		respond.Error(w, h.Log, "dashboard: "+key, err)
		return
	}
	h.Cache.Set(key, v)
	respond.OK(w, v)
}
