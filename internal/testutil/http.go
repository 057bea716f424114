package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AdminUser returns a signed-in admin for handler tests.
func AdminUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.pesantren.id",
		Role:  "admin",
	}
}

// TestSecret signs tokens in handler tests.
const TestSecret = "test-secret-for-pesantrenhub-handlers-0123456789"

// SessionManager returns a manager for route-level tests.
func SessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(TestSecret, "", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return sm
}

// Serve runs req through h and returns the recorder.
func Serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// JSONRequest builds a request with body marshalled as JSON. A string body
// is sent as is.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// AdminRequest is JSONRequest with AdminUser in the context.
func AdminRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	return auth.WithUser(JSONRequest(t, method, target, body), AdminUser())
}

// Envelope mirrors the API response body for assertions.
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Errors     []FieldError    `json:"errors"`
	Pagination *Pagination     `json:"pagination"`
	Cached     bool            `json:"cached"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// DecodeEnvelope parses rec's body, failing the test on invalid JSON.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a JSON envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

// DecodeData unmarshals the envelope's data into dst.
func DecodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) Envelope {
	t.Helper()
	env := DecodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

// HasFieldError reports whether env carries an error for field.
func (e Envelope) HasFieldError(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}
