package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/system/authutil"
	"github.com/dalemusser/pesantrenhub/internal/app/system/slug"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminPassword is the password of accounts made by CreateAdminUser.
const AdminPassword = "rahasia-admin-123"

// Fixtures provides helper methods for creating test data. Documents are
// written straight to their collections, bypassing the stores, and each
// one gets a CreatedAt a millisecond after the previous one so ordering by
// creation time is deterministic.
type Fixtures struct {
	db   *mongo.Database
	t    *testing.T
	base time.Time
	seq  int
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t, base: time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// next returns a unique suffix and the next creation time.
func (f *Fixtures) next() (int, time.Time) {
	f.seq++
	return f.seq, f.base.Add(time.Duration(f.seq) * time.Millisecond)
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to create test %s: %v", coll, err)
	}
}

func (f *Fixtures) slugFor(title string, n int) string {
	return fmt.Sprintf("%s-%d", slug.Make(title), n)
}

// CreateNews creates a news item with the given status.
func (f *Fixtures) CreateNews(ctx context.Context, title, status string) models.News {
	f.t.Helper()
	n, at := f.next()
	item := models.News{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Slug:      f.slugFor(title, n),
		Content:   "<p>" + title + "</p>",
		Category:  "Umum",
		Tags:      []string{},
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
	item.Stamp(at)
	f.insert(ctx, models.CollNews, item)
	return item
}

// CreateBlogPost creates a blog post with the given status.
func (f *Fixtures) CreateBlogPost(ctx context.Context, title, status string) models.BlogPost {
	f.t.Helper()
	n, at := f.next()
	post := models.BlogPost{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Slug:      f.slugFor(title, n),
		Content:   "<p>" + title + "</p>",
		Author:    models.BlogAuthor{Name: "Ustadz Test"},
		Category:  "Kajian",
		Tags:      []string{},
		Status:    status,
		ReadTime:  1,
		CreatedAt: at,
		UpdatedAt: at,
	}
	post.Stamp(at)
	f.insert(ctx, models.CollBlogs, post)
	return post
}

// FixtureEventCapacity is the seat count of events made by CreateEvent.
const FixtureEventCapacity = 100

// CreateEvent creates a published event dated `in` from now with
// FixtureEventCapacity seats and open registration.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, in time.Duration) models.Event {
	f.t.Helper()
	n, at := f.next()
	ev := models.Event{
		ID:               primitive.NewObjectID(),
		Title:            title,
		TitleCI:          text.Fold(title),
		Slug:             f.slugFor(title, n),
		Date:             time.Now().UTC().Add(in).Truncate(time.Millisecond),
		Location:         "Aula Pesantren",
		Capacity:         FixtureEventCapacity,
		RegistrationOpen: true,
		Currency:         "IDR",
		Status:           models.EventPublished,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
	f.insert(ctx, models.CollEvents, ev)
	return ev
}

// CreateGalleryItem creates a published image item.
func (f *Fixtures) CreateGalleryItem(ctx context.Context, title string) models.GalleryItem {
	f.t.Helper()
	n, at := f.next()
	g := models.GalleryItem{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Slug:      f.slugFor(title, n),
		Type:      models.GalleryImage,
		Content:   "https://res.cloudinary.com/demo/image/upload/v1/gallery/" + f.slugFor(title, n) + ".jpg",
		Category:  "Kegiatan",
		Tags:      []string{},
		Status:    models.StatusPublished,
		CreatedAt: at,
		UpdatedAt: at,
	}
	f.insert(ctx, models.CollGallery, g)
	return g
}

// CreateTestimonial creates a testimonial with the given status.
func (f *Fixtures) CreateTestimonial(ctx context.Context, name, status string) models.Testimonial {
	f.t.Helper()
	_, at := f.next()
	tm := models.Testimonial{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Role:      "Wali Santri",
		Content:   "Alhamdulillah, anak kami tumbuh menjadi pribadi yang lebih mandiri dan santun.",
		Rating:    5,
		Status:    status,
		Source:    models.SourceAdmin,
		CreatedAt: at,
		UpdatedAt: at,
	}
	tm.Stamp("", at)
	f.insert(ctx, models.CollTestimonials, tm)
	return tm
}

// CreateDonation creates a donation without a campaign.
func (f *Fixtures) CreateDonation(ctx context.Context, donor string, amount float64, status string) models.Donation {
	f.t.Helper()
	n, at := f.next()
	d := models.Donation{
		ID:            primitive.NewObjectID(),
		DonorName:     donor,
		DonorNameCI:   text.Fold(donor),
		Amount:        amount,
		Currency:      "IDR",
		PaymentStatus: status,
		ReceiptNumber: fmt.Sprintf("RCP-TEST-%06d", n),
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	d.Stamp("", at)
	f.insert(ctx, models.CollDonations, d)
	return d
}

// CreateCampaign creates a campaign with nothing collected yet.
func (f *Fixtures) CreateCampaign(ctx context.Context, title string, goal float64, status string) models.Campaign {
	f.t.Helper()
	n, at := f.next()
	c := models.Campaign{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Slug:      f.slugFor(title, n),
		Goal:      goal,
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
	f.insert(ctx, models.CollCampaigns, c)
	return c
}

// CreateContactMessage creates a contact message with the given status.
func (f *Fixtures) CreateContactMessage(ctx context.Context, subject, status string) models.ContactMessage {
	f.t.Helper()
	_, at := f.next()
	m := models.ContactMessage{
		ID:        primitive.NewObjectID(),
		Name:      "Pengunjung",
		Email:     "pengunjung@example.com",
		Subject:   subject,
		Message:   "Assalamualaikum, saya ingin bertanya.",
		Status:    status,
		Priority:  models.PriorityNormal,
		CreatedAt: at,
		UpdatedAt: at,
	}
	f.insert(ctx, models.CollContacts, m)
	return m
}

// CreateAdminUser creates an admin whose password is AdminPassword.
func (f *Fixtures) CreateAdminUser(ctx context.Context, email string) models.AdminUser {
	f.t.Helper()
	_, at := f.next()
	hash, err := authutil.HashPassword(AdminPassword)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	u := models.AdminUser{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin Test",
		Role:         models.RoleAdmin,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	f.insert(ctx, models.CollAdminUsers, u)
	return u
}
