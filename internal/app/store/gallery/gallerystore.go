// internal/app/store/gallery/gallerystore.go
package gallerystore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var SearchFields = []string{"title", "description", "tags"}

type Store struct {
	*mongostore.Collection[models.GalleryItem]
}

func New(db *mongo.Database) *Store {
	c := mongostore.New[models.GalleryItem](db, models.CollGallery, "Gallery item").
		WithConflictMessage("A gallery item with this slug already exists.")
	return &Store{Collection: c}
}

// Normalize sorts album items by Order and defaults their type to image.
// Single image and video items carry no album entries.
func Normalize(g *models.GalleryItem) {
	if g.Type != models.GalleryAlbum {
		g.Items = nil
		return
	}
	for i := range g.Items {
		if g.Items[i].Type == "" {
			g.Items[i].Type = models.GalleryImage
		}
	}
	sort.SliceStable(g.Items, func(i, j int) bool { return g.Items[i].Order < g.Items[j].Order })
}

// CheckShape enforces the per-type content rules: image and video need a
// content URL, an album needs at least one item.
func CheckShape(g models.GalleryItem) error {
	switch g.Type {
	case models.GalleryImage, models.GalleryVideo:
		if strings.TrimSpace(g.Content) == "" {
			return apperr.Invalid("content", "Content URL is required for "+g.Type+" items.")
		}
	case models.GalleryAlbum:
		if len(g.Items) == 0 {
			return apperr.Invalid("items", "An album needs at least one item.")
		}
	default:
		return apperr.Invalid("type", "Type must be image, video or album.")
	}
	return nil
}

func (s *Store) Create(ctx context.Context, g models.GalleryItem) (models.GalleryItem, error) {
	Normalize(&g)
	if err := CheckShape(g); err != nil {
		return models.GalleryItem{}, err
	}
	now := time.Now().UTC()

	g.ID = primitive.NewObjectID()
	g.TitleCI = text.Fold(g.Title)
	if g.Status == "" {
		g.Status = models.StatusDraft
	}
	if g.Tags == nil {
		g.Tags = []string{}
	}
	g.ViewCount = 0
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := s.Insert(ctx, g); err != nil {
		return models.GalleryItem{}, err
	}
	return g, nil
}

// Update writes the editable fields of g. The view counter is kept.
func (s *Store) Update(ctx context.Context, g models.GalleryItem) (models.GalleryItem, error) {
	Normalize(&g)
	if err := CheckShape(g); err != nil {
		return models.GalleryItem{}, err
	}
	set := bson.M{
		"title":       g.Title,
		"title_ci":    text.Fold(g.Title),
		"slug":        g.Slug,
		"description": g.Description,
		"type":        g.Type,
		"cover_image": g.CoverImage,
		"content":     g.Content,
		"items":       g.Items,
		"category":    g.Category,
		"tags":        g.Tags,
		"status":      g.Status,
		"featured":    g.Featured,
		"updated_at":  time.Now().UTC(),
	}
	return s.UpdateByID(ctx, g.ID, bson.M{"$set": set}, nil, "")
}

// ReadPublished returns the published item with id or slug key and counts
// the view.
func (s *Store) ReadPublished(ctx context.Context, key string) (models.GalleryItem, error) {
	return s.Inc(ctx, mongostore.KeyFilter(key, bson.M{"status": models.StatusPublished}), "view_count")
}

// PublicSort lists featured items first, newest first within each group.
var PublicSort = bson.D{{Key: "featured", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
