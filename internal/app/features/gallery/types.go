package gallery

import (
	"strings"

	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/slug"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
)

type mediaInput struct {
	URL     string `json:"url" validate:"required,httpurl" label:"Item URL"`
	Caption string `json:"caption" validate:"max=300" label:"Caption"`
	Type    string `json:"type" validate:"omitempty,oneof=image video" label:"Item type"`
	Order   int    `json:"order"`
}

type itemInput struct {
	Title       string       `json:"title" validate:"required,max=200" label:"Title"`
	Slug        string       `json:"slug" validate:"required,slug,max=120" label:"Slug"`
	Description string       `json:"description" validate:"max=2000" label:"Description"`
	Type        string       `json:"type" validate:"required,oneof=image video album" label:"Type"`
	CoverImage  string       `json:"coverImage" validate:"omitempty,httpurl" label:"Cover image"`
	Content     string       `json:"content" validate:"omitempty,httpurl" label:"Content URL"`
	Items       []mediaInput `json:"items" validate:"max=200,dive" label:"Items"`
	Category    string       `json:"category" validate:"max=60" label:"Category"`
	Tags        []string     `json:"tags" validate:"max=20,dive,max=40" label:"Tags"`
	Status      string       `json:"status" validate:"oneof=draft published" label:"Status"`
	Featured    bool         `json:"featured"`
}

func newInput() itemInput {
	return itemInput{Type: models.GalleryImage, Status: models.StatusDraft}
}

// inputFrom leaves Items nil: decoding a JSON array over existing structs
// would keep fields the new elements omit. Callers fill Items from the
// stored item with itemsFrom when the body does not send any.
func inputFrom(g models.GalleryItem) itemInput {
	return itemInput{
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		Type:        g.Type,
		CoverImage:  g.CoverImage,
		Content:     g.Content,
		Category:    g.Category,
		Tags:        g.Tags,
		Status:      g.Status,
		Featured:    g.Featured,
	}
}

func itemsFrom(g models.GalleryItem) []mediaInput {
	out := make([]mediaInput, 0, len(g.Items))
	for _, it := range g.Items {
		out = append(out, mediaInput{URL: it.URL, Caption: it.Caption, Type: it.Type, Order: it.Order})
	}
	return out
}

func (in *itemInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Slug == "" {
		in.Slug = slug.Make(in.Title)
	}
	in.Description = strings.TrimSpace(in.Description)
	in.Type = normalize.Status(in.Type)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
	in.Content = strings.TrimSpace(in.Content)
	for i := range in.Items {
		in.Items[i].URL = strings.TrimSpace(in.Items[i].URL)
		in.Items[i].Caption = strings.TrimSpace(in.Items[i].Caption)
		in.Items[i].Type = normalize.Status(in.Items[i].Type)
	}
	in.Category = strings.TrimSpace(in.Category)
	in.Tags = normalize.Tags(in.Tags)
	in.Status = normalize.Status(in.Status)
	if in.Status == "" {
		in.Status = models.StatusDraft
	}
}

func (in itemInput) applyTo(g *models.GalleryItem) {
	g.Title = in.Title
	g.Slug = in.Slug
	g.Description = in.Description
	g.Type = in.Type
	g.CoverImage = in.CoverImage
	g.Content = in.Content
	g.Items = nil
	for _, it := range in.Items {
		g.Items = append(g.Items, models.GalleryMedia{URL: it.URL, Caption: it.Caption, Type: it.Type, Order: it.Order})
	}
	g.Category = in.Category
	g.Tags = in.Tags
	g.Status = in.Status
	g.Featured = in.Featured
}
