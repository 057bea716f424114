package testimonials

import (
	"strings"

	"github.com/dalemusser/pesantrenhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
)

// submission is the public form. Status, featured and source are not
// accepted from the client.
type submission struct {
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Role     string `json:"role" validate:"max=100" label:"Role"`
	Position string `json:"position" validate:"max=100" label:"Position"`
	Content  string `json:"content" validate:"required,min=50,max=300" label:"Testimonial"`
	Avatar   string `json:"avatar" validate:"omitempty,httpurl" label:"Avatar"`
	Rating   int    `json:"rating" validate:"omitempty,min=1,max=5" label:"Rating"`
	Category string `json:"category" validate:"max=60" label:"Category"`
}

func (s *submission) normalize() {
	s.Name = normalize.Name(s.Name)
	s.Role = normalize.Name(s.Role)
	s.Position = normalize.Name(s.Position)
	s.Content = htmlsanitize.Text(s.Content)
	s.Avatar = strings.TrimSpace(s.Avatar)
	s.Category = strings.TrimSpace(s.Category)
}

func (s submission) testimonial() models.Testimonial {
	return models.Testimonial{
		Name:     s.Name,
		Role:     s.Role,
		Position: s.Position,
		Content:  s.Content,
		Avatar:   s.Avatar,
		Rating:   s.Rating,
		Category: s.Category,
		Status:   models.TestimonialPending,
		Featured: false,
		Source:   models.SourcePublic,
	}
}

// testimonialInput is the admin create and update body.
type testimonialInput struct {
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Role     string `json:"role" validate:"max=100" label:"Role"`
	Position string `json:"position" validate:"max=100" label:"Position"`
	Content  string `json:"content" validate:"required,max=2000" label:"Testimonial"`
	Avatar   string `json:"avatar" validate:"omitempty,httpurl" label:"Avatar"`
	Rating   int    `json:"rating" validate:"min=1,max=5" label:"Rating"`
	Category string `json:"category" validate:"max=60" label:"Category"`
	Status   string `json:"status" validate:"oneof=pending approved rejected" label:"Status"`
	Featured bool   `json:"featured"`
	Source   string `json:"source" validate:"oneof=form admin public" label:"Source"`
}

func newInput() testimonialInput {
	return testimonialInput{
		Rating: 5,
		Status: models.TestimonialPending,
		Source: models.SourceAdmin,
	}
}

func inputFrom(t models.Testimonial) testimonialInput {
	return testimonialInput{
		Name:     t.Name,
		Role:     t.Role,
		Position: t.Position,
		Content:  t.Content,
		Avatar:   t.Avatar,
		Rating:   t.Rating,
		Category: t.Category,
		Status:   t.Status,
		Featured: t.Featured,
		Source:   t.Source,
	}
}

func (in *testimonialInput) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Role = normalize.Name(in.Role)
	in.Position = normalize.Name(in.Position)
	in.Content = strings.TrimSpace(in.Content)
	in.Avatar = strings.TrimSpace(in.Avatar)
	in.Category = strings.TrimSpace(in.Category)
	in.Status = normalize.Status(in.Status)
	in.Source = normalize.Status(in.Source)
}

// applyTo copies the input onto t. Source is fixed at creation; an update
// keeps the stored value.
func (in testimonialInput) applyTo(t *models.Testimonial) {
	t.Name = in.Name
	t.Role = in.Role
	t.Position = in.Position
	t.Content = in.Content
	t.Avatar = in.Avatar
	t.Rating = in.Rating
	t.Category = in.Category
	t.Status = in.Status
	t.Featured = in.Featured
	if t.Source == "" {
		t.Source = in.Source
	}
}
