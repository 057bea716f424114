package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// News is a school news item.
type News struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	TitleCI       string             `bson:"title_ci" json:"-"`
	Slug          string             `bson:"slug" json:"slug"`
	Excerpt       string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content       string             `bson:"content" json:"content"` // sanitized HTML
	FeaturedImage string             `bson:"featured_image,omitempty" json:"featuredImage,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Author        string             `bson:"author,omitempty" json:"author,omitempty"`
	Tags          []string           `bson:"tags,omitempty" json:"tags"`

	Status      string     `bson:"status" json:"status"` // draft | published
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"publishedAt,omitempty"`
	Views       int64      `bson:"views" json:"views"`
	Priority    int        `bson:"priority" json:"priority"`
	Featured    bool       `bson:"featured" json:"featured"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
