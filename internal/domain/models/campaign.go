package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign statuses.
const (
	CampaignDraft     = "draft"
	CampaignActive    = "active"
	CampaignCompleted = "completed"
	CampaignCancelled = "cancelled"
)

var CampaignStatuses = []string{CampaignDraft, CampaignActive, CampaignCompleted, CampaignCancelled}

// Campaign is a donation drive tracked by slug.
type Campaign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`

	Goal       float64 `bson:"goal" json:"goal"`
	Collected  float64 `bson:"collected" json:"collected"`
	Progress   float64 `bson:"progress" json:"progress"` // percent, 0..100
	DonorCount int64   `bson:"donor_count" json:"donorCount"`

	Status    string     `bson:"status" json:"status"`
	StartDate *time.Time `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CampaignProgress returns min(collected/goal*100, 100), rounded to two decimals.
// A non-positive goal yields 0.
func CampaignProgress(collected, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := collected / goal * 100
	if p > 100 {
		p = 100
	}
	return math.Round(p*100) / 100
}

// ApplyDonation adds one donation of amount to the campaign totals and
// completes an active campaign whose goal has been reached.
func (c *Campaign) ApplyDonation(amount float64) {
	c.Collected += amount
	c.DonorCount++
	c.Recompute()
}

// Recompute refreshes Progress and flips active -> completed once the goal is met.
func (c *Campaign) Recompute() {
	c.Progress = CampaignProgress(c.Collected, c.Goal)
	if c.Status == CampaignActive && c.Goal > 0 && c.Collected >= c.Goal {
		c.Status = CampaignCompleted
	}
}
