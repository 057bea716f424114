package campaigns

import (
	"strings"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/slug"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
)

// campaignInput is the admin body. Collected and DonorCount are
// corrections: they are only written when the body sets them, so edits do
// not race donations being recorded.
type campaignInput struct {
	Title       string   `json:"title" validate:"required,max=200" label:"Title"`
	Slug        string   `json:"slug" validate:"required,slug,max=120" label:"Slug"`
	Description string   `json:"description" label:"Description"`
	Image       string   `json:"image" validate:"omitempty,httpurl" label:"Image"`
	Goal        float64  `json:"goal" validate:"gte=0" label:"Goal"`
	Collected   *float64 `json:"collected" validate:"omitempty,gte=0" label:"Collected"`
	DonorCount  *int64   `json:"donorCount" validate:"omitempty,gte=0" label:"Donor count"`
	Status      string   `json:"status" validate:"oneof=draft active completed cancelled" label:"Status"`
	StartDate   string   `json:"startDate" validate:"omitempty,date" label:"Start date"`
	EndDate     string   `json:"endDate" validate:"omitempty,date" label:"End date"`
}

func newInput() campaignInput {
	return campaignInput{Status: models.CampaignDraft}
}

func inputFrom(c models.Campaign) campaignInput {
	return campaignInput{
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		Image:       c.Image,
		Goal:        c.Goal,
		Status:      c.Status,
		StartDate:   formatDate(c.StartDate),
		EndDate:     formatDate(c.EndDate),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, ok := inputval.ParseDate(s)
	if !ok {
		return nil
	}
	return &t
}

func (in *campaignInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Slug == "" {
		in.Slug = slug.Make(in.Title)
	}
	in.Description = htmlsanitize.PrepareContent(in.Description)
	in.Image = strings.TrimSpace(in.Image)
	in.Status = normalize.Status(in.Status)
	if in.Status == "" {
		in.Status = models.CampaignDraft
	}
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
}

func (in campaignInput) validate() *inputval.Result {
	res := inputval.Validate(in)
	if res.HasErrors() {
		return res
	}
	start, end := parseDate(in.StartDate), parseDate(in.EndDate)
	if start != nil && end != nil && end.Before(*start) {
		res.Add("endDate", "End date cannot be before the start date.")
	}
	return res
}

// applyTo copies the input onto c and reports whether totals were set.
func (in campaignInput) applyTo(c *models.Campaign) (setTotals bool) {
	c.Title = in.Title
	c.Slug = in.Slug
	c.Description = in.Description
	c.Image = in.Image
	c.Goal = in.Goal
	c.Status = in.Status
	c.StartDate = parseDate(in.StartDate)
	c.EndDate = parseDate(in.EndDate)
	if in.Collected != nil {
		c.Collected = *in.Collected
		setTotals = true
	}
	if in.DonorCount != nil {
		c.DonorCount = *in.DonorCount
		setTotals = true
	}
	return setTotals
}
