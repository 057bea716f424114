// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"time"

	adminuserstore "github.com/dalemusser/pesantrenhub/internal/app/store/adminusers"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler uses the default login limits when limiter is nil.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter()
	}
	return &Handler{DB: db, SessionMgr: sm, Limiter: limiter, Log: logger}
}

type credentials struct {
	Email    string `json:"email" validate:"required,mailaddr" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type session struct {
	User      auth.SessionUser `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// HandleLogin handles POST /api/auth/login. On success the session token
// is set as an httponly cookie and also returned for bearer clients.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "login", err)
		return
	}
	in.Email = normalize.Email(in.Email)

	if ok, reason := h.Limiter.Check(r, in.Email); !ok {
		h.Log.Warn("login rate limited",
			zap.String("email", in.Email),
			zap.String("ip", ratelimit.ClientIP(r)))
		respond.Fail(w, http.StatusTooManyRequests, reason)
		return
	}
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "login", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := adminuserstore.New(h.DB).Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			h.Log.Info("login failed",
				zap.String("email", in.Email),
				zap.String("ip", ratelimit.ClientIP(r)))
		}
		respond.Error(w, h.Log, "login", err)
		return
	}
	h.Limiter.Succeeded(in.Email)

	su := auth.SessionUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
	tok, err := h.SessionMgr.Issue(w, su)
	if err != nil {
		respond.Error(w, h.Log, "login: issue token", err)
		return
	}
	h.Log.Info("admin signed in", zap.String("email", u.Email), zap.String("role", u.Role))

	respond.OK(w, session{
		User:      su,
		Token:     tok,
		ExpiresAt: time.Now().UTC().Add(h.SessionMgr.TTL()),
	})
}

// HandleLogout handles POST /api/auth/logout. It always succeeds; the token
// itself stays valid until it expires.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.SessionMgr.Clear(w)
	if u, ok := auth.CurrentUser(r); ok {
		h.Log.Info("admin signed out", zap.String("email", u.Email))
	}
	respond.Message(w, "Signed out.")
}

// ServeMe handles GET /api/auth/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	respond.OK(w, u)
}
