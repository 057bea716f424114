package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Testimonial statuses.
const (
	TestimonialPending  = "pending"
	TestimonialApproved = "approved"
	TestimonialRejected = "rejected"
)

// Testimonial sources.
const (
	SourceForm   = "form"
	SourceAdmin  = "admin"
	SourcePublic = "public"
)

var (
	TestimonialStatuses = []string{TestimonialPending, TestimonialApproved, TestimonialRejected}
	TestimonialSources  = []string{SourceForm, SourceAdmin, SourcePublic}
)

// Public submission content bounds (characters).
const (
	TestimonialMinContent = 50
	TestimonialMaxContent = 300
)

type Testimonial struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Role     string             `bson:"role,omitempty" json:"role,omitempty"` // e.g. "Wali Santri", "Alumni"
	Position string             `bson:"position,omitempty" json:"position,omitempty"`
	Content  string             `bson:"content" json:"content"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Rating   int                `bson:"rating" json:"rating"` // 1..5
	Category string             `bson:"category,omitempty" json:"category,omitempty"`

	Status     string     `bson:"status" json:"status"`
	Featured   bool       `bson:"featured" json:"featured"`
	Source     string     `bson:"source" json:"source"`
	ApprovedAt *time.Time `bson:"approved_at,omitempty" json:"approvedAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
