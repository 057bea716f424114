package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses.
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// EventStatuses lists valid event statuses.
var EventStatuses = []string{EventDraft, EventPublished, EventCancelled, EventCompleted}

// Event is a school event. Registered never exceeds Capacity; an event with
// zero Capacity takes no registrations.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
	EndDate     *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Time        string             `bson:"time,omitempty" json:"time,omitempty"` // e.g. "08:00 - 12:00"
	Location    string             `bson:"location" json:"location"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`

	Capacity         int  `bson:"capacity" json:"capacity"`
	Registered       int  `bson:"registered" json:"registered"`
	RegistrationOpen bool `bson:"registration_open" json:"registrationOpen"`

	Price    float64 `bson:"price" json:"price"`
	Currency string  `bson:"currency" json:"currency"`

	Status   string `bson:"status" json:"status"`
	Featured bool   `bson:"featured" json:"featured"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
