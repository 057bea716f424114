package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Integrations reports which optional backends are configured.
type Integrations struct {
	Media    bool `json:"media"`
	Payments bool `json:"payments"`
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client       *mongo.Client
	Integrations Integrations
	Started      time.Time
	Log          *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, integrations Integrations, logger *zap.Logger) *Handler {
	return &Handler{
		Client:       client,
		Integrations: integrations,
		Started:      time.Now(),
		Log:          logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status       string       `json:"status"`
	Database     string       `json:"database"`
	Uptime       string       `json:"uptime"`
	Integrations Integrations `json:"integrations"`
	Message      string       `json:"message,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "uptime":"1h2m3s", "integrations":{...} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:       "ok",
		Database:     "connected",
		Uptime:       time.Since(h.Started).Truncate(time.Second).String(),
		Integrations: h.Integrations,
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		respond.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
