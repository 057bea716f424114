package events

import (
	"strings"
	"time"

	eventstore "github.com/dalemusser/pesantrenhub/internal/app/store/events"
	"github.com/dalemusser/pesantrenhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/slug"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
)

// eventInput carries dates as strings so they can be validated with a
// readable message before parsing. Registered is only written when the
// body sets it.
type eventInput struct {
	Title            string  `json:"title" validate:"required,max=200" label:"Title"`
	Slug             string  `json:"slug" validate:"required,slug,max=120" label:"Slug"`
	Description      string  `json:"description" label:"Description"`
	Date             string  `json:"date" validate:"required,date" label:"Date"`
	EndDate          string  `json:"endDate" validate:"omitempty,date" label:"End date"`
	Time             string  `json:"time" validate:"max=60" label:"Time"`
	Location         string  `json:"location" validate:"required,max=200" label:"Location"`
	Image            string  `json:"image" validate:"omitempty,httpurl" label:"Image"`
	Category         string  `json:"category" validate:"max=60" label:"Category"`
	Capacity         int     `json:"capacity" validate:"gte=0" label:"Capacity"`
	Registered       *int    `json:"registered" validate:"omitempty,gte=0" label:"Registered"`
	RegistrationOpen bool    `json:"registrationOpen"`
	Price            float64 `json:"price" validate:"gte=0" label:"Price"`
	Currency         string  `json:"currency" validate:"omitempty,len=3,alpha" label:"Currency"`
	Status           string  `json:"status" validate:"oneof=draft published cancelled completed" label:"Status"`
	Featured         bool    `json:"featured"`
}

func newInput() eventInput {
	return eventInput{Status: models.EventDraft, RegistrationOpen: true, Currency: eventstore.DefaultCurrency}
}

func inputFrom(e models.Event) eventInput {
	in := eventInput{
		Title:            e.Title,
		Slug:             e.Slug,
		Description:      e.Description,
		Date:             e.Date.UTC().Format(time.RFC3339),
		Time:             e.Time,
		Location:         e.Location,
		Image:            e.Image,
		Category:         e.Category,
		Capacity:         e.Capacity,
		RegistrationOpen: e.RegistrationOpen,
		Price:            e.Price,
		Currency:         e.Currency,
		Status:           e.Status,
		Featured:         e.Featured,
	}
	if e.EndDate != nil {
		in.EndDate = e.EndDate.UTC().Format(time.RFC3339)
	}
	return in
}

func (in *eventInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Slug == "" {
		in.Slug = slug.Make(in.Title)
	}
	in.Description = htmlsanitize.PrepareContent(in.Description)
	in.Date = strings.TrimSpace(in.Date)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Time = strings.TrimSpace(in.Time)
	in.Location = normalize.Name(in.Location)
	in.Image = strings.TrimSpace(in.Image)
	in.Category = strings.TrimSpace(in.Category)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.Status = normalize.Status(in.Status)
	if in.Status == "" {
		in.Status = models.EventDraft
	}
}

// validate runs the tag rules and then the cross-field date check.
func (in eventInput) validate() *inputval.Result {
	res := inputval.Validate(in)
	if res.HasErrors() || in.EndDate == "" {
		return res
	}
	start, _ := inputval.ParseDate(in.Date)
	end, _ := inputval.ParseDate(in.EndDate)
	if end.Before(start) {
		res.Add("endDate", "End date cannot be before the start date.")
	}
	return res
}

// applyTo copies the input onto e. It reports whether the registration
// count was supplied. Dates must already be valid.
func (in eventInput) applyTo(e *models.Event) (setRegistered bool) {
	e.Title = in.Title
	e.Slug = in.Slug
	e.Description = in.Description
	e.Date, _ = inputval.ParseDate(in.Date)
	e.EndDate = nil
	if in.EndDate != "" {
		end, _ := inputval.ParseDate(in.EndDate)
		e.EndDate = &end
	}
	e.Time = in.Time
	e.Location = in.Location
	e.Image = in.Image
	e.Category = in.Category
	e.Capacity = in.Capacity
	e.RegistrationOpen = in.RegistrationOpen
	e.Price = in.Price
	e.Currency = in.Currency
	e.Status = in.Status
	e.Featured = in.Featured
	if in.Registered != nil {
		e.Registered = *in.Registered
		return true
	}
	return false
}
