// internal/app/store/testimonials/testimonialstore.go
package testimonialstore

import (
	"context"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var SearchFields = []string{"name", "content", "role"}

// DefaultRating is used when a testimonial arrives without one.
const DefaultRating = 5

type Store struct {
	*mongostore.Collection[models.Testimonial]
}

func New(db *mongo.Database) *Store {
	return &Store{Collection: mongostore.New[models.Testimonial](db, models.CollTestimonials, "Testimonial")}
}

func (s *Store) Create(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	now := time.Now().UTC()

	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.TestimonialPending
	}
	if t.Source == "" {
		t.Source = models.SourceAdmin
	}
	if t.Rating == 0 {
		t.Rating = DefaultRating
	}
	t.Stamp("", now)
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.Insert(ctx, t); err != nil {
		return models.Testimonial{}, err
	}
	return t, nil
}

// Update writes the editable fields of t. prevStatus is the stored status
// before the edit and decides whether this is the approval.
func (s *Store) Update(ctx context.Context, t models.Testimonial, prevStatus string) (models.Testimonial, error) {
	now := time.Now().UTC()
	t.Stamp(prevStatus, now)

	set := bson.M{
		"name":        t.Name,
		"role":        t.Role,
		"position":    t.Position,
		"content":     t.Content,
		"avatar":      t.Avatar,
		"rating":      t.Rating,
		"category":    t.Category,
		"status":      t.Status,
		"featured":    t.Featured,
		"approved_at": t.ApprovedAt,
		"updated_at":  now,
	}
	return s.UpdateByID(ctx, t.ID, bson.M{"$set": set}, nil, "")
}

// PublicSort lists featured testimonials first, newest first within each group.
var PublicSort = bson.D{{Key: "featured", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
