// internal/app/store/blog/blogstore.go
package blogstore

import (
	"context"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var SearchFields = []string{"title", "excerpt", "content"}

type Store struct {
	*mongostore.Collection[models.BlogPost]
}

func New(db *mongo.Database) *Store {
	c := mongostore.New[models.BlogPost](db, models.CollBlogs, "Blog post").
		WithConflictMessage("A blog post with this slug already exists.")
	return &Store{Collection: c}
}

// ReadTime is the read time in minutes of an HTML body.
func ReadTime(content string) int {
	return models.ReadTimeMinutes(htmlsanitize.WordCount(content))
}

// Create inserts b, deriving ReadTime from its content.
func (s *Store) Create(ctx context.Context, b models.BlogPost) (models.BlogPost, error) {
	now := time.Now().UTC()

	b.ID = primitive.NewObjectID()
	b.TitleCI = text.Fold(b.Title)
	if b.Status == "" {
		b.Status = models.StatusDraft
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	b.ReadTime = ReadTime(b.Content)
	b.Views = 0
	b.Stamp(now)
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.Insert(ctx, b); err != nil {
		return models.BlogPost{}, err
	}
	return b, nil
}

// Update writes the editable fields of b and recomputes ReadTime.
func (s *Store) Update(ctx context.Context, b models.BlogPost) (models.BlogPost, error) {
	now := time.Now().UTC()
	b.Stamp(now)

	set := bson.M{
		"title":          b.Title,
		"title_ci":       text.Fold(b.Title),
		"slug":           b.Slug,
		"excerpt":        b.Excerpt,
		"content":        b.Content,
		"featured_image": b.FeaturedImage,
		"author":         b.Author,
		"category":       b.Category,
		"tags":           b.Tags,
		"status":         b.Status,
		"read_time":      ReadTime(b.Content),
		"published_at":   b.PublishedAt,
		"updated_at":     now,
	}
	return s.UpdateByID(ctx, b.ID, bson.M{"$set": set}, nil, "")
}

// ReadPublished returns the published post with id or slug key and counts
// the read.
func (s *Store) ReadPublished(ctx context.Context, key string) (models.BlogPost, error) {
	return s.Inc(ctx, mongostore.KeyFilter(key, bson.M{"status": models.StatusPublished}), "views")
}

// Recent returns the n most recently created posts.
func (s *Store) Recent(ctx context.Context, n int64) ([]models.BlogPost, error) {
	return s.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(n))
}
