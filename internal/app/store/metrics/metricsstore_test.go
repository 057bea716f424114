package metricsstore_test

import (
	"context"
	"testing"
	"time"

	metricsstore "github.com/dalemusser/pesantrenhub/internal/app/store/metrics"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
)

func item(typ models.ContentType, slug string, at time.Time) metricsstore.RecentItem {
	return metricsstore.RecentItem{Type: typ, Slug: slug, CreatedAt: at}
}

func TestMergeRecent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	news := []metricsstore.RecentItem{
		item(models.ContentNews, "n1", base.Add(5*time.Hour)),
		item(models.ContentNews, "n2", base.Add(1*time.Hour)),
	}
	blogs := []metricsstore.RecentItem{
		item(models.ContentBlog, "b1", base.Add(6*time.Hour)),
		item(models.ContentBlog, "b-notime", time.Time{}),
	}
	events := []metricsstore.RecentItem{
		item(models.ContentEvent, "e1", base.Add(3*time.Hour)),
	}

	got := metricsstore.MergeRecent(4, news, blogs, events)

	want := []struct {
		slug string
		typ  models.ContentType
	}{
		{"b1", models.ContentBlog},
		{"n1", models.ContentNews},
		{"e1", models.ContentEvent},
		{"n2", models.ContentNews},
	}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Slug != w.slug || got[i].Type != w.typ {
			t.Errorf("[%d]: got %s/%s, want %s/%s", i, got[i].Type, got[i].Slug, w.typ, w.slug)
		}
	}
}

func TestMergeRecent_ZeroTimeLastAndEmpty(t *testing.T) {
	base := time.Now()
	got := metricsstore.MergeRecent(8,
		[]metricsstore.RecentItem{item(models.ContentNews, "old", time.Time{})},
		[]metricsstore.RecentItem{item(models.ContentEvent, "new", base)},
	)
	if len(got) != 2 || got[1].Slug != "old" {
		t.Errorf("zero time should sort last, got %+v", got)
	}

	empty := metricsstore.MergeRecent(8)
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty merge: got %#v, want empty non-nil slice", empty)
	}
}

func TestFetchSummary_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s, err := metricsstore.FetchSummary(ctx, db, nil)
	if err != nil {
		t.Fatalf("FetchSummary: %v", err)
	}
	if s.Stats != (metricsstore.Stats{}) {
		t.Errorf("Stats: got %+v, want zeros", s.Stats)
	}
	if len(s.Recent) != 0 {
		t.Errorf("Recent: got %d items", len(s.Recent))
	}
}

func TestFetchSummary_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 6; i++ {
		fx.CreateNews(ctx, "Berita", models.StatusPublished)
	}
	fx.CreateBlogPost(ctx, "Blog", models.StatusDraft)
	fx.CreateBlogPost(ctx, "Blog", models.StatusPublished)
	fx.CreateEvent(ctx, "Kajian", 0)
	fx.CreateGalleryItem(ctx, "Foto")
	fx.CreateTestimonial(ctx, "Wali", models.TestimonialApproved)
	fx.CreateDonation(ctx, "A", 1500, models.PaymentCompleted)
	fx.CreateDonation(ctx, "B", 500, models.PaymentPending)
	fx.CreateAdminUser(ctx, "admin@example.com")

	s, err := metricsstore.FetchSummary(ctx, db, nil)
	if err != nil {
		t.Fatalf("FetchSummary: %v", err)
	}

	want := metricsstore.Stats{
		News: 6, Blogs: 2, Events: 1, Gallery: 1, Testimonials: 1,
		Users: 1, Donations: 2, DonationTotal: 2000,
	}
	if s.Stats != want {
		t.Errorf("Stats: got %+v, want %+v", s.Stats, want)
	}

	// 5 news + 2 blogs + 1 event are fetched, 8 kept.
	if len(s.Recent) != metricsstore.RecentLimit {
		t.Fatalf("Recent: got %d items, want %d", len(s.Recent), metricsstore.RecentLimit)
	}
	types := map[models.ContentType]int{}
	for i, r := range s.Recent {
		types[r.Type]++
		if i > 0 && r.CreatedAt.After(s.Recent[i-1].CreatedAt) {
			t.Errorf("recent not sorted at %d", i)
		}
	}
	if types[models.ContentNews] != 5 || types[models.ContentBlog] != 2 || types[models.ContentEvent] != 1 {
		t.Errorf("recent types: got %v", types)
	}
}

func TestFetchSummary_DegradesCountsButFailsRecent(t *testing.T) {
	db := testutil.OfflineDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := metricsstore.FetchSummary(ctx, db, nil); err == nil {
		t.Fatal("expected an error when the recent queries cannot run")
	}
}

func TestFetchDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateTestimonial(ctx, "Pending", models.TestimonialPending)
	fx.CreateTestimonial(ctx, "Approved", models.TestimonialApproved)
	fx.CreateContactMessage(ctx, "Tanya", models.MessageUnread)
	fx.CreateContactMessage(ctx, "Sudah", models.MessageReplied)
	fx.CreateCampaign(ctx, "Wakaf", 1000, models.CampaignActive)
	fx.CreateCampaign(ctx, "Lama", 1000, models.CampaignCompleted)
	fx.CreateEvent(ctx, "Besok", 24*time.Hour)
	fx.CreateEvent(ctx, "Kemarin", -24*time.Hour)
	fx.CreateDonation(ctx, "A", 700, models.PaymentCompleted)
	fx.CreateDonation(ctx, "B", 300, models.PaymentPending)

	d, err := metricsstore.FetchDashboard(ctx, db, nil, time.Now())
	if err != nil {
		t.Fatalf("FetchDashboard: %v", err)
	}
	want := metricsstore.Overview{
		PendingTestimonials:    1,
		UnreadMessages:         1,
		ActiveCampaigns:        1,
		UpcomingEvents:         1,
		CompletedDonationTotal: 700,
	}
	if d.Overview != want {
		t.Errorf("Overview: got %+v, want %+v", d.Overview, want)
	}
	if d.Stats.DonationTotal != 1000 {
		t.Errorf("Stats.DonationTotal: got %v, want 1000", d.Stats.DonationTotal)
	}
}
