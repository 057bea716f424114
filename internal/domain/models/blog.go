package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogAuthor is embedded in a blog post.
type BlogAuthor struct {
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// BlogPost is a long-form article. ReadTime is derived from the word count of Content.
type BlogPost struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	TitleCI       string             `bson:"title_ci" json:"-"`
	Slug          string             `bson:"slug" json:"slug"`
	Excerpt       string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content       string             `bson:"content" json:"content"`
	FeaturedImage string             `bson:"featured_image,omitempty" json:"featuredImage,omitempty"`
	Author        BlogAuthor         `bson:"author" json:"author"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Tags          []string           `bson:"tags,omitempty" json:"tags"`

	Status      string     `bson:"status" json:"status"` // draft | published | archived
	ReadTime    int        `bson:"read_time" json:"readTime"` // minutes
	Views       int64      `bson:"views" json:"views"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"publishedAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
