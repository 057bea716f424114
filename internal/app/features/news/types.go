package news

import (
	"strings"

	"github.com/dalemusser/pesantrenhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/slug"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
)

// newsInput is the request body for create and update. Update decodes the
// body over the stored values, so omitted fields keep their current value.
type newsInput struct {
	Title         string   `json:"title" validate:"required,max=200" label:"Title"`
	Slug          string   `json:"slug" validate:"required,slug,max=120" label:"Slug"`
	Excerpt       string   `json:"excerpt" validate:"max=500" label:"Excerpt"`
	Content       string   `json:"content" validate:"required" label:"Content"`
	FeaturedImage string   `json:"featuredImage" validate:"omitempty,httpurl" label:"Featured image"`
	Category      string   `json:"category" validate:"max=60" label:"Category"`
	Author        string   `json:"author" validate:"max=120" label:"Author"`
	Tags          []string `json:"tags" validate:"max=20,dive,max=40" label:"Tags"`
	Status        string   `json:"status" validate:"oneof=draft published" label:"Status"`
	Priority      int      `json:"priority" validate:"gte=0,lte=100" label:"Priority"`
	Featured      bool     `json:"featured"`
}

func newInput() newsInput {
	return newsInput{Status: models.StatusDraft}
}

func inputFrom(n models.News) newsInput {
	return newsInput{
		Title:         n.Title,
		Slug:          n.Slug,
		Excerpt:       n.Excerpt,
		Content:       n.Content,
		FeaturedImage: n.FeaturedImage,
		Category:      n.Category,
		Author:        n.Author,
		Tags:          n.Tags,
		Status:        n.Status,
		Priority:      n.Priority,
		Featured:      n.Featured,
	}
}

func (in *newsInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Slug == "" {
		in.Slug = slug.Make(in.Title)
	}
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = htmlsanitize.PrepareContent(in.Content)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	in.Category = strings.TrimSpace(in.Category)
	in.Author = normalize.Name(in.Author)
	in.Tags = normalize.Tags(in.Tags)
	in.Status = normalize.Status(in.Status)
	if in.Status == "" {
		in.Status = models.StatusDraft
	}
}

func (in newsInput) applyTo(n *models.News) {
	n.Title = in.Title
	n.Slug = in.Slug
	n.Excerpt = in.Excerpt
	n.Content = in.Content
	n.FeaturedImage = in.FeaturedImage
	n.Category = in.Category
	n.Author = in.Author
	n.Tags = in.Tags
	n.Status = in.Status
	n.Priority = in.Priority
	n.Featured = in.Featured
}
