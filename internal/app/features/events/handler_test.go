package events_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/features/events"
	eventstore "github.com/dalemusser/pesantrenhub/internal/app/store/events"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func routes(t *testing.T, db *mongo.Database, submit *ratelimit.Limiter) (public, admin http.Handler) {
	t.Helper()
	h := events.NewHandler(db, nil, submit, zap.NewNop())
	return events.PublicRoutes(h), events.AdminRoutes(h, testutil.SessionManager(t))
}

func TestCreate_Validation(t *testing.T) {
	_, admin := routes(t, testutil.OfflineDB(t), nil)

	base := func(over map[string]any) map[string]any {
		b := map[string]any{"title": "Haul Masyayikh", "date": "2025-03-01", "location": "Masjid"}
		for k, v := range over {
			b[k] = v
		}
		return b
	}

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing date", base(map[string]any{"date": ""}), "date"},
		{"bad date", base(map[string]any{"date": "01/03/2025"}), "date"},
		{"missing location", base(map[string]any{"location": " "}), "location"},
		{"end before start", base(map[string]any{"endDate": "2025-02-01"}), "endDate"},
		{"negative capacity", base(map[string]any{"capacity": -1}), "capacity"},
		{"bad status", base(map[string]any{"status": "postponed"}), "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPost, "/", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400; body %s", rec.Code, rec.Body.String())
			}
			if env := testutil.DecodeEnvelope(t, rec); !env.HasFieldError(tt.field) {
				t.Errorf("expected field error on %q, got %+v", tt.field, env.Errors)
			}
		})
	}
}

func TestCreate_OverCapacity(t *testing.T) {
	_, admin := routes(t, testutil.SetupSchemaDB(t), nil)

	rec := testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPost, "/", map[string]any{
		"title": "Seminar Parenting", "date": "2025-05-10", "location": "Aula",
		"capacity": 10, "registered": 11,
	}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	if env := testutil.DecodeEnvelope(t, rec); !env.HasFieldError("registered") {
		t.Errorf("expected registered field error, got %+v", env.Errors)
	}
}

func TestCreate_Defaults(t *testing.T) {
	_, admin := routes(t, testutil.SetupSchemaDB(t), nil)

	rec := testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPost, "/", map[string]any{
		"title": "Pesantren Kilat", "date": "2025-06-20T01:00:00+07:00", "location": "Kampus Putra",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body %s", rec.Code, rec.Body.String())
	}
	var got models.Event
	testutil.DecodeData(t, rec, &got)
	if got.Status != models.EventDraft || got.Currency != "IDR" || !got.RegistrationOpen {
		t.Errorf("defaults: got status=%q currency=%q open=%v", got.Status, got.Currency, got.RegistrationOpen)
	}
	want := time.Date(2025, 6, 19, 18, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Errorf("date: got %v, want %v", got.Date, want)
	}
}

func TestUpdate_CapacityBelowRegistrations(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	_, admin := routes(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := testutil.NewFixtures(t, db).CreateEvent(ctx, "Wisuda", 48*time.Hour)
	if _, err := db.Collection(models.CollEvents).UpdateByID(ctx, ev.ID, bson.M{"$set": bson.M{"registered": 5}}); err != nil {
		t.Fatalf("seed registrations: %v", err)
	}

	rec := testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPatch, "/"+ev.ID.Hex(), map[string]any{"capacity": 3}))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409; body %s", rec.Code, rec.Body.String())
	}

	rec = testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPatch, "/"+ev.ID.Hex(), map[string]any{"capacity": 5}))
	if rec.Code != http.StatusOK {
		t.Fatalf("capacity 5: got %d; body %s", rec.Code, rec.Body.String())
	}
	var got models.Event
	testutil.DecodeData(t, rec, &got)
	if got.Registered != 5 || got.Title != ev.Title {
		t.Errorf("registered/title: got %d %q", got.Registered, got.Title)
	}
}

func TestUpdate_ZeroCapacityRejectsRegistrations(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	_, admin := routes(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := testutil.NewFixtures(t, db).CreateEvent(ctx, "Tanpa Kursi", 24*time.Hour)

	rec := testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPatch, "/"+ev.ID.Hex(), map[string]any{
		"capacity": 0, "registered": 5,
	}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	if env := testutil.DecodeEnvelope(t, rec); !env.HasFieldError("registered") {
		t.Errorf("expected registered field error, got %+v", env.Errors)
	}
}

func TestRegister_StopsAtCapacity(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	public, _ := routes(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := testutil.NewFixtures(t, db).CreateEvent(ctx, "Bedah Buku", 24*time.Hour)
	ev.Capacity = 3
	if _, err := eventstore.New(db).Update(ctx, ev, false); err != nil {
		t.Fatalf("set capacity: %v", err)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := testutil.Serve(public, httptest.NewRequest(http.MethodPost, "/"+ev.Slug+"/register", nil))
			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if codes[http.StatusCreated] != 3 || codes[http.StatusConflict] != 5 {
		t.Fatalf("codes: got %v, want 3x201 and 5x409", codes)
	}
	stored, err := eventstore.New(db).GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Registered != 3 {
		t.Errorf("registered: got %d, want 3", stored.Registered)
	}
}

func TestRegister_ClosedAndMissing(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	public, _ := routes(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := testutil.NewFixtures(t, db).CreateEvent(ctx, "Tertutup", 24*time.Hour)
	ev.RegistrationOpen = false
	if _, err := eventstore.New(db).Update(ctx, ev, false); err != nil {
		t.Fatalf("close registration: %v", err)
	}

	rec := testutil.Serve(public, httptest.NewRequest(http.MethodPost, "/"+ev.Slug+"/register", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("closed: got %d, want 409", rec.Code)
	}
	rec = testutil.Serve(public, httptest.NewRequest(http.MethodPost, "/tidak-ada/register", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: got %d, want 404", rec.Code)
	}
}

func TestRegister_RateLimited(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	public, _ := routes(t, db, ratelimit.New(1, time.Minute))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := testutil.NewFixtures(t, db).CreateEvent(ctx, "Open House", 24*time.Hour)

	testutil.Serve(public, httptest.NewRequest(http.MethodPost, "/"+ev.Slug+"/register", nil))
	rec := testutil.Serve(public, httptest.NewRequest(http.MethodPost, "/"+ev.Slug+"/register", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second registration: got %d, want 429", rec.Code)
	}
}

func TestPublicList_Upcoming(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	public, _ := routes(t, db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	later := fx.CreateEvent(ctx, "Nanti", 10*24*time.Hour)
	soon := fx.CreateEvent(ctx, "Segera", 3*24*time.Hour)
	fx.CreateEvent(ctx, "Lalu", -10*24*time.Hour)

	rec := testutil.Serve(public, httptest.NewRequest(http.MethodGet, "/?upcoming=true", nil))
	var rows []models.Event
	testutil.DecodeData(t, rec, &rows)
	if len(rows) != 2 || rows[0].ID != soon.ID || rows[1].ID != later.ID {
		t.Fatalf("upcoming: got %d rows %+v", len(rows), rows)
	}
}
