package blog

import (
	"strings"

	"github.com/dalemusser/pesantrenhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/slug"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
)

type authorInput struct {
	Name   string `json:"name" validate:"required,max=120" label:"Author name"`
	Avatar string `json:"avatar" validate:"omitempty,httpurl" label:"Author avatar"`
}

type postInput struct {
	Title         string      `json:"title" validate:"required,max=200" label:"Title"`
	Slug          string      `json:"slug" validate:"required,slug,max=120" label:"Slug"`
	Excerpt       string      `json:"excerpt" validate:"max=500" label:"Excerpt"`
	Content       string      `json:"content" validate:"required" label:"Content"`
	FeaturedImage string      `json:"featuredImage" validate:"omitempty,httpurl" label:"Featured image"`
	Author        authorInput `json:"author"`
	Category      string      `json:"category" validate:"max=60" label:"Category"`
	Tags          []string    `json:"tags" validate:"max=20,dive,max=40" label:"Tags"`
	Status        string      `json:"status" validate:"oneof=draft published archived" label:"Status"`
}

func newInput() postInput {
	return postInput{Status: models.StatusDraft}
}

func inputFrom(b models.BlogPost) postInput {
	return postInput{
		Title:         b.Title,
		Slug:          b.Slug,
		Excerpt:       b.Excerpt,
		Content:       b.Content,
		FeaturedImage: b.FeaturedImage,
		Author:        authorInput{Name: b.Author.Name, Avatar: b.Author.Avatar},
		Category:      b.Category,
		Tags:          b.Tags,
		Status:        b.Status,
	}
}

func (in *postInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Slug == "" {
		in.Slug = slug.Make(in.Title)
	}
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = htmlsanitize.PrepareContent(in.Content)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	in.Author.Name = normalize.Name(in.Author.Name)
	in.Author.Avatar = strings.TrimSpace(in.Author.Avatar)
	in.Category = strings.TrimSpace(in.Category)
	in.Tags = normalize.Tags(in.Tags)
	in.Status = normalize.Status(in.Status)
	if in.Status == "" {
		in.Status = models.StatusDraft
	}
}

func (in postInput) applyTo(b *models.BlogPost) {
	b.Title = in.Title
	b.Slug = in.Slug
	b.Excerpt = in.Excerpt
	b.Content = in.Content
	b.FeaturedImage = in.FeaturedImage
	b.Author = models.BlogAuthor{Name: in.Author.Name, Avatar: in.Author.Avatar}
	b.Category = in.Category
	b.Tags = in.Tags
	b.Status = in.Status
}
