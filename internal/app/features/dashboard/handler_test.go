package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/features/dashboard"
	metricsstore "github.com/dalemusser/pesantrenhub/internal/app/store/metrics"
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ttlcache"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// clock is a settable time source for the cache.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func router(t *testing.T, db *mongo.Database, cache *dashboard.Cache) http.Handler {
	t.Helper()
	return dashboard.Routes(dashboard.NewHandler(db, cache, zap.NewNop()), testutil.SessionManager(t))
}

func TestRoutes_RequireStaff(t *testing.T) {
	r := router(t, testutil.OfflineDB(t), nil)

	if rec := testutil.Serve(r, httptest.NewRequest(http.MethodGet, "/summary", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}
	viewer := testutil.AdminUser()
	viewer.Role = "viewer"
	req := auth.WithUser(httptest.NewRequest(http.MethodGet, "/summary", nil), viewer)
	if rec := testutil.Serve(r, req); rec.Code != http.StatusForbidden {
		t.Errorf("unknown role: got %d, want 403", rec.Code)
	}
}

func TestSummary_CountsRecentAndCache(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := ttlcache.New[string, any](30*time.Second, ttlcache.WithClock(clk.now))
	r := router(t, db, cache)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	for i := 0; i < 6; i++ {
		fx.CreateNews(ctx, "Berita", models.StatusPublished)
	}
	fx.CreateBlogPost(ctx, "Catatan", models.StatusDraft)
	fx.CreateEvent(ctx, "Kajian", 24*time.Hour)
	fx.CreateDonation(ctx, "A", 10000, models.PaymentCompleted)
	fx.CreateDonation(ctx, "B", 2500, models.PaymentPending)

	rec := testutil.Serve(r, testutil.AdminRequest(t, http.MethodGet, "/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body %s", rec.Code, rec.Body.String())
	}
	var got metricsstore.Summary
	env := testutil.DecodeData(t, rec, &got)
	if env.Cached {
		t.Error("first call should not be cached")
	}
	st := got.Stats
	if st.News != 6 || st.Blogs != 1 || st.Events != 1 || st.Donations != 2 || st.DonationTotal != 12500 {
		t.Errorf("stats: %+v", st)
	}
	if len(got.Recent) != 7 {
		t.Fatalf("recent: got %d items, want 7 (5 news + 1 blog + 1 event)", len(got.Recent))
	}
	types := map[models.ContentType]int{}
	for i, it := range got.Recent {
		types[it.Type]++
		if i > 0 && it.CreatedAt.After(got.Recent[i-1].CreatedAt) {
			t.Errorf("recent not newest first at %d", i)
		}
	}
	if types[models.ContentNews] != 5 || types[models.ContentBlog] != 1 || types[models.ContentEvent] != 1 {
		t.Errorf("recent types: %v", types)
	}

	// a write inside the TTL is not visible
	fx.CreateNews(ctx, "Baru", models.StatusDraft)
	rec = testutil.Serve(r, testutil.AdminRequest(t, http.MethodGet, "/summary", nil))
	env = testutil.DecodeData(t, rec, &got)
	if !env.Cached || got.Stats.News != 6 {
		t.Errorf("within TTL: cached=%v news=%d", env.Cached, got.Stats.News)
	}

	clk.advance(31 * time.Second)
	rec = testutil.Serve(r, testutil.AdminRequest(t, http.MethodGet, "/summary", nil))
	env = testutil.DecodeData(t, rec, &got)
	if env.Cached || got.Stats.News != 7 {
		t.Errorf("after TTL: cached=%v news=%d", env.Cached, got.Stats.News)
	}
}

func TestDashboard_OverviewAndSeparateKey(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	r := router(t, db, dashboard.NewCache(time.Minute))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateTestimonial(ctx, "Wali", models.TestimonialPending)
	fx.CreateTestimonial(ctx, "Alumni", models.TestimonialApproved)
	fx.CreateContactMessage(ctx, "Tanya", models.MessageUnread)
	fx.CreateCampaign(ctx, "Wakaf", 100000, models.CampaignActive)
	fx.CreateDonation(ctx, "A", 40000, models.PaymentCompleted)
	fx.CreateDonation(ctx, "B", 9000, models.PaymentFailed)

	// warm the summary key first; the dashboard must still be computed
	testutil.Serve(r, testutil.AdminRequest(t, http.MethodGet, "/summary", nil))

	rec := testutil.Serve(r, testutil.AdminRequest(t, http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body %s", rec.Code, rec.Body.String())
	}
	var got metricsstore.Dashboard
	env := testutil.DecodeData(t, rec, &got)
	if env.Cached {
		t.Error("dashboard served from the summary cache entry")
	}
	ov := got.Overview
	if ov.PendingTestimonials != 1 || ov.UnreadMessages != 1 || ov.ActiveCampaigns != 1 || ov.CompletedDonationTotal != 40000 {
		t.Errorf("overview: %+v", ov)
	}
	if got.Stats.Testimonials != 2 || got.Stats.DonationTotal != 49000 {
		t.Errorf("stats: %+v", got.Stats)
	}
}

func TestSummary_RecentFailureIsServerError(t *testing.T) {
	r := router(t, testutil.OfflineDB(t), nil)

	rec := testutil.Serve(r, testutil.AdminRequest(t, http.MethodGet, "/summary", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env.Error != "Internal server error" {
		t.Errorf("error: got %q", env.Error)
	}
}
