package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gallery item types.
const (
	GalleryImage = "image"
	GalleryVideo = "video"
	GalleryAlbum = "album"
)

// GalleryTypes lists valid gallery item types.
var GalleryTypes = []string{GalleryImage, GalleryVideo, GalleryAlbum}

// GalleryMedia is one entry of an album.
type GalleryMedia struct {
	URL     string `bson:"url" json:"url"`
	Caption string `bson:"caption,omitempty" json:"caption,omitempty"`
	Type    string `bson:"type" json:"type"` // image | video
	Order   int    `bson:"order" json:"order"`
}

// GalleryItem is a single image, a single video, or an album.
// Content is set for image/video; Items is set for album.
type GalleryItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Type        string             `bson:"type" json:"type"`
	CoverImage  string             `bson:"cover_image,omitempty" json:"coverImage,omitempty"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"`
	Items       []GalleryMedia     `bson:"items,omitempty" json:"items,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags"`

	Status    string `bson:"status" json:"status"`
	Featured  bool   `bson:"featured" json:"featured"`
	ViewCount int64  `bson:"view_count" json:"viewCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// MediaURLs returns every remote asset URL referenced by the item.
func (g GalleryItem) MediaURLs() []string {
	var urls []string
	if g.CoverImage != "" {
		urls = append(urls, g.CoverImage)
	}
	if g.Content != "" {
		urls = append(urls, g.Content)
	}
	for _, it := range g.Items {
		if it.URL != "" {
			urls = append(urls, it.URL)
		}
	}
	return urls
}
