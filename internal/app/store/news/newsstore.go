// internal/app/store/news/newsstore.go
package newsstore

import (
	"context"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchFields are matched by the list search term.
var SearchFields = []string{"title", "excerpt", "content"}

type Store struct {
	*mongostore.Collection[models.News]
}

func New(db *mongo.Database) *Store {
	c := mongostore.New[models.News](db, models.CollNews, "News item").
		WithConflictMessage("A news item with this slug already exists.")
	return &Store{Collection: c}
}

// Create inserts n with a fresh id, folded title, timestamps and defaults.
// Views always start at zero.
func (s *Store) Create(ctx context.Context, n models.News) (models.News, error) {
	now := time.Now().UTC()

	n.ID = primitive.NewObjectID()
	n.TitleCI = text.Fold(n.Title)
	if n.Status == "" {
		n.Status = models.StatusDraft
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	n.Views = 0
	n.Stamp(now)
	n.CreatedAt = now
	n.UpdatedAt = now

	if err := s.Insert(ctx, n); err != nil {
		return models.News{}, err
	}
	return n, nil
}

// Update writes the editable fields of n. The view counter is left alone
// so concurrent public reads are not lost.
func (s *Store) Update(ctx context.Context, n models.News) (models.News, error) {
	now := time.Now().UTC()
	n.Stamp(now)

	set := bson.M{
		"title":          n.Title,
		"title_ci":       text.Fold(n.Title),
		"slug":           n.Slug,
		"excerpt":        n.Excerpt,
		"content":        n.Content,
		"featured_image": n.FeaturedImage,
		"category":       n.Category,
		"author":         n.Author,
		"tags":           n.Tags,
		"status":         n.Status,
		"published_at":   n.PublishedAt,
		"priority":       n.Priority,
		"featured":       n.Featured,
		"updated_at":     now,
	}
	return s.UpdateByID(ctx, n.ID, bson.M{"$set": set}, nil, "")
}

// ReadPublished returns the published item with id or slug key and counts
// the read.
func (s *Store) ReadPublished(ctx context.Context, key string) (models.News, error) {
	return s.Inc(ctx, mongostore.KeyFilter(key, bson.M{"status": models.StatusPublished}), "views")
}

// Recent returns the n most recently created items.
func (s *Store) Recent(ctx context.Context, n int64) ([]models.News, error) {
	return s.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(n))
}
