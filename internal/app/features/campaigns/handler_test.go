package campaigns_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/pesantrenhub/internal/app/features/campaigns"
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func routes(t *testing.T, db *mongo.Database) (public, admin http.Handler) {
	t.Helper()
	h := campaigns.NewHandler(db, nil, zap.NewNop())
	return campaigns.PublicRoutes(h), campaigns.AdminRoutes(h, testutil.SessionManager(t))
}

func TestAdminRoutes_EditorForbidden(t *testing.T) {
	_, admin := routes(t, testutil.OfflineDB(t))

	editor := testutil.AdminUser()
	editor.Role = models.RoleEditor
	req := auth.WithUser(httptest.NewRequest(http.MethodGet, "/", nil), editor)

	if rec := testutil.Serve(admin, req); rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
}

func TestCreate_ProgressFromTotals(t *testing.T) {
	_, admin := routes(t, testutil.SetupSchemaDB(t))

	rec := testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPost, "/", map[string]any{
		"title":     "Wakaf Asrama Putri",
		"goal":      1000000,
		"collected": 250000,
		"status":    "active",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body %s", rec.Code, rec.Body.String())
	}
	var got models.Campaign
	testutil.DecodeData(t, rec, &got)
	if got.Slug != "wakaf-asrama-putri" || got.Progress != 25 {
		t.Errorf("got slug=%q progress=%v", got.Slug, got.Progress)
	}
}

func TestCreate_Validation(t *testing.T) {
	_, admin := routes(t, testutil.OfflineDB(t))

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"negative goal", map[string]any{"title": "A", "goal": -1}, "goal"},
		{"bad status", map[string]any{"title": "A", "status": "paused"}, "status"},
		{"end before start", map[string]any{"title": "A", "startDate": "2025-02-01", "endDate": "2025-01-01"}, "endDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPost, "/", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rec.Code)
			}
			if env := testutil.DecodeEnvelope(t, rec); !env.HasFieldError(tt.field) {
				t.Errorf("expected field error on %q, got %+v", tt.field, env.Errors)
			}
		})
	}
}

func TestUpdate_GoalReachedCompletes(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	_, admin := routes(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := testutil.NewFixtures(t, db).CreateCampaign(ctx, "Sumur Bor", 500000, models.CampaignActive)
	if _, err := db.Collection(models.CollCampaigns).UpdateByID(ctx, c.ID,
		bson.M{"$set": bson.M{"collected": 400000.0, "donor_count": 4}}); err != nil {
		t.Fatalf("seed totals: %v", err)
	}

	// lowering the goal keeps the stored totals and completes the campaign
	rec := testutil.Serve(admin, testutil.AdminRequest(t, http.MethodPatch, "/"+c.ID.Hex(), map[string]any{"goal": 400000}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body %s", rec.Code, rec.Body.String())
	}
	var got models.Campaign
	testutil.DecodeData(t, rec, &got)
	if got.Collected != 400000 || got.DonorCount != 4 {
		t.Errorf("totals changed: %v / %d", got.Collected, got.DonorCount)
	}
	if got.Progress != 100 || got.Status != models.CampaignCompleted {
		t.Errorf("got progress=%v status=%q", got.Progress, got.Status)
	}
}

func TestPublic_HidesDraftsAndNamesDonors(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	public, _ := routes(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	active := fx.CreateCampaign(ctx, "Renovasi Masjid", 1000000, models.CampaignActive)
	draft := fx.CreateCampaign(ctx, "Rencana", 1000000, models.CampaignDraft)

	named := fx.CreateDonation(ctx, "Pak Umar", 50000, models.PaymentCompleted)
	anon := fx.CreateDonation(ctx, "Rahasia", 75000, models.PaymentCompleted)
	pending := fx.CreateDonation(ctx, "Belum Bayar", 10000, models.PaymentPending)
	coll := db.Collection(models.CollDonations)
	for _, id := range []any{named.ID, anon.ID, pending.ID} {
		if _, err := coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"campaign": active.Slug}}); err != nil {
			t.Fatalf("link donation: %v", err)
		}
	}
	if _, err := coll.UpdateByID(ctx, anon.ID, bson.M{"$set": bson.M{"is_anonymous": true}}); err != nil {
		t.Fatalf("anonymize: %v", err)
	}

	rec := testutil.Serve(public, httptest.NewRequest(http.MethodGet, "/", nil))
	var rows []models.Campaign
	testutil.DecodeData(t, rec, &rows)
	if len(rows) != 1 || rows[0].ID != active.ID {
		t.Fatalf("list: got %+v", rows)
	}
	if rec := testutil.Serve(public, httptest.NewRequest(http.MethodGet, "/"+draft.Slug, nil)); rec.Code != http.StatusNotFound {
		t.Errorf("draft show: got %d, want 404", rec.Code)
	}

	rec = testutil.Serve(public, httptest.NewRequest(http.MethodGet, "/"+active.Slug, nil))
	var page struct {
		Slug         string `json:"slug"`
		RecentDonors []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
		} `json:"recentDonors"`
	}
	env := testutil.DecodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Slug != active.Slug || len(page.RecentDonors) != 2 {
		t.Fatalf("page: %+v", page)
	}
	if page.RecentDonors[0].Name != "Hamba Allah" || page.RecentDonors[1].Name != "Pak Umar" {
		t.Errorf("donor names: %+v", page.RecentDonors)
	}
}
