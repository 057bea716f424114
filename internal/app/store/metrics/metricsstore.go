package metricsstore

import (
	"context"
	"sort"
	"time"

	eventstore "github.com/dalemusser/pesantrenhub/internal/app/store/events"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// RecentPerType is how many recent items are read from each content collection.
	RecentPerType = 5
	// RecentLimit is the length of the merged recent list.
	RecentLimit = 8
)

// Stats is the set of totals shown on the admin summary.
type Stats struct {
	News          int64   `json:"news"`
	Blogs         int64   `json:"blogs"`
	Events        int64   `json:"events"`
	Gallery       int64   `json:"gallery"`
	Testimonials  int64   `json:"testimonials"`
	Users         int64   `json:"users"`
	Donations     int64   `json:"donations"`
	DonationTotal float64 `json:"donationTotal"`
}

// RecentItem is one entry of the merged recent list, tagged with the
// collection it came from.
type RecentItem struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Type      models.ContentType `bson:"-" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Slug      string             `bson:"slug" json:"slug"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Summary is the admin summary payload.
type Summary struct {
	Stats  Stats        `json:"stats"`
	Recent []RecentItem `json:"recent"`
}

// Overview adds the triage counters shown on the dashboard.
type Overview struct {
	PendingTestimonials    int64   `json:"pendingTestimonials"`
	UnreadMessages         int64   `json:"unreadMessages"`
	ActiveCampaigns        int64   `json:"activeCampaigns"`
	UpcomingEvents         int64   `json:"upcomingEvents"`
	CompletedDonationTotal float64 `json:"completedDonationTotal"`
}

// Dashboard is the admin dashboard payload.
type Dashboard struct {
	Summary
	Overview Overview `json:"overview"`
}

// FetchSummary reads the summary counts and the recent list concurrently.
// Count failures are logged and reported as zero; a failed recent-item
// query fails the whole call.
func FetchSummary(ctx context.Context, db *mongo.Database, log *zap.Logger) (Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		st                  Stats
		amounts             []float64
		news, blogs, events []RecentItem
	)

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, coll string, filter bson.M) {
		g.Go(func() error {
			*dst = countOrZero(gctx, db, log, coll, filter)
			return nil
		})
	}
	count(&st.News, models.CollNews, bson.M{})
	count(&st.Blogs, models.CollBlogs, bson.M{})
	count(&st.Events, models.CollEvents, bson.M{})
	count(&st.Gallery, models.CollGallery, bson.M{})
	count(&st.Testimonials, models.CollTestimonials, bson.M{})
	count(&st.Users, models.CollAdminUsers, bson.M{})
	g.Go(func() error {
		a, err := donationAmounts(gctx, db)
		if err != nil {
			log.Warn("summary: donation amounts failed; reporting zero", zap.Error(err))
			return nil
		}
		amounts = a
		return nil
	})

	recent := func(dst *[]RecentItem, coll string, typ models.ContentType) {
		g.Go(func() error {
			items, err := recentOf(gctx, db, coll, typ)
			*dst = items
			return err
		})
	}
	recent(&news, models.CollNews, models.ContentNews)
	recent(&blogs, models.CollBlogs, models.ContentBlog)
	recent(&events, models.CollEvents, models.ContentEvent)

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	st.Donations = int64(len(amounts))
	for _, a := range amounts {
		st.DonationTotal += a
	}
	return Summary{Stats: st, Recent: MergeRecent(RecentLimit, news, blogs, events)}, nil
}

// FetchDashboard is FetchSummary plus the overview counters, all read
// concurrently under the same degrade-to-zero policy.
func FetchDashboard(ctx context.Context, db *mongo.Database, log *zap.Logger, now time.Time) (Dashboard, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		out Dashboard
		ov  Overview
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := FetchSummary(gctx, db, log)
		out.Summary = s
		return err
	})
	count := func(dst *int64, coll string, filter bson.M) {
		g.Go(func() error {
			*dst = countOrZero(gctx, db, log, coll, filter)
			return nil
		})
	}
	count(&ov.PendingTestimonials, models.CollTestimonials, bson.M{"status": models.TestimonialPending})
	count(&ov.UnreadMessages, models.CollContacts, bson.M{"status": models.MessageUnread})
	count(&ov.ActiveCampaigns, models.CollCampaigns, bson.M{"status": models.CampaignActive})
	count(&ov.UpcomingEvents, models.CollEvents, eventstore.UpcomingFilter(now))
	g.Go(func() error {
		total, err := completedTotal(gctx, db)
		if err != nil {
			log.Warn("dashboard: completed donation total failed; reporting zero", zap.Error(err))
			return nil
		}
		ov.CompletedDonationTotal = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	out.Overview = ov
	return out, nil
}

func countOrZero(ctx context.Context, db *mongo.Database, log *zap.Logger, coll string, filter bson.M) int64 {
	n, err := db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		log.Warn("count failed; reporting zero", zap.String("collection", coll), zap.Error(err))
		return 0
	}
	return n
}

func donationAmounts(ctx context.Context, db *mongo.Database) ([]float64, error) {
	cur, err := db.Collection(models.CollDonations).Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"amount": 1, "_id": 0}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Amount float64 `bson:"amount"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Amount
	}
	return out, nil
}

func completedTotal(ctx context.Context, db *mongo.Database) (float64, error) {
	cur, err := db.Collection(models.CollDonations).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": models.PaymentCompleted}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func recentOf(ctx context.Context, db *mongo.Database, coll string, typ models.ContentType) ([]RecentItem, error) {
	cur, err := db.Collection(coll).Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(RecentPerType).
		SetProjection(bson.M{"title": 1, "slug": 1, "status": 1, "created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []RecentItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Type = typ
	}
	return items, nil
}

// MergeRecent concatenates the lists, orders them newest first (a zero
// CreatedAt sorts last) and keeps the first n. Ties keep input order.
func MergeRecent(n int, lists ...[]RecentItem) []RecentItem {
	var all []RecentItem
	for _, l := range lists {
		all = append(all, l...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > n {
		all = all[:n]
	}
	if all == nil {
		all = []RecentItem{}
	}
	return all
}
