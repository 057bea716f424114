// Package auth issues and verifies the admin session: an HS256 JWT carried
// in an httponly cookie (or an Authorization: Bearer header).
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// MinSecretLen is the shortest signing secret accepted in production.
const MinSecretLen = 32

const issuer = "pesantrenhub"

// ErrInvalidToken is returned by Parse for any token that fails signature,
// algorithm, issuer or expiry checks.
var ErrInvalidToken = errors.New("invalid session token")

// SessionUser is the identity carried in the token and placed in the
// request context.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager signs, reads and clears session tokens.
type SessionManager struct {
	secret     []byte
	cookieName string
	domain     string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
	log        *zap.Logger
}

// NewSessionManager validates the secret and returns a manager. secure marks
// the cookie Secure and should be true outside local development.
func NewSessionManager(secret, cookieName, domain string, ttl time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide %d+ random chars", MinSecretLen)
	}
	if len(secret) < MinSecretLen {
		if secure {
			return nil, fmt.Errorf("jwt secret is %d chars; %d+ required", len(secret), MinSecretLen)
		}
		logger.Warn("jwt secret is short", zap.Int("length", len(secret)))
	}
	if cookieName == "" {
		cookieName = "pesantren_session"
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &SessionManager{
		secret:     []byte(secret),
		cookieName: cookieName,
		domain:     domain,
		ttl:        ttl,
		secure:     secure,
		now:        time.Now,
		log:        logger,
	}, nil
}

// SetClock replaces time.Now for issuing and verifying tokens, for tests.
func (sm *SessionManager) SetClock(now func() time.Time) { sm.now = now }

// CookieName returns the session cookie name.
func (sm *SessionManager) CookieName() string { return sm.cookieName }

// TTL returns the session lifetime.
func (sm *SessionManager) TTL() time.Duration { return sm.ttl }

// Sign returns a signed token for u and its expiry.
func (sm *SessionManager) Sign(u SessionUser) (string, time.Time, error) {
	now := sm.now().UTC()
	exp := now.Add(sm.ttl)
	c := claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(sm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// Parse verifies the token and returns its user. Only HS256 is accepted.
func (sm *SessionManager) Parse(token string) (*SessionUser, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return sm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(sm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &SessionUser{ID: c.Subject, Name: c.Name, Email: c.Email, Role: c.Role}, nil
}

// Issue signs a token for u and sets it as the session cookie.
func (sm *SessionManager) Issue(w http.ResponseWriter, u SessionUser) (string, error) {
	tok, exp, err := sm.Sign(u)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, sm.cookie(tok, exp, int(sm.ttl.Seconds())))
	return tok, nil
}

// Clear expires the session cookie.
func (sm *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, sm.cookie("", time.Unix(0, 0), -1))
}

func (sm *SessionManager) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     "/",
		Domain:   sm.domain,
		Expires:  exp,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// tokenFrom returns the bearer token, falling back to the session cookie.
func (sm *SessionManager) tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(sm.cookieName); err == nil {
		return c.Value
	}
	return ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| Context                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithUser returns r carrying u. Handler tests use it to skip the token.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser places the token's user in the request context when a
// valid token is present. Invalid or expired tokens are ignored here;
// RequireSignedIn turns their absence into a 401.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := sm.tokenFrom(r); tok != "" {
			u, err := sm.Parse(tok)
			if err == nil {
				r = WithUser(r, u)
			} else {
				sm.log.Debug("session token rejected", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn answers 401 unless a user is in context.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Fail(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole answers 401 without a user and 403 when the user's role is
// not one of allowed.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.Fail(w, http.StatusUnauthorized, "Authentication required.")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				respond.Fail(w, http.StatusForbidden, "You do not have access to this resource.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
