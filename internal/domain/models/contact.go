package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact message statuses.
const (
	MessageUnread   = "unread"
	MessageRead     = "read"
	MessageReplied  = "replied"
	MessageArchived = "archived"
)

// Contact message priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

var (
	MessageStatuses   = []string{MessageUnread, MessageRead, MessageReplied, MessageArchived}
	MessagePriorities = []string{PriorityLow, PriorityNormal, PriorityHigh}
)

type ContactMessage struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject string             `bson:"subject" json:"subject"`
	Message string             `bson:"message" json:"message"`

	Status      string     `bson:"status" json:"status"`
	Priority    string     `bson:"priority" json:"priority"`
	RespondedAt *time.Time `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
	RespondedBy string     `bson:"responded_by,omitempty" json:"respondedBy,omitempty"`
	ReplyNote   string     `bson:"reply_note,omitempty" json:"replyNote,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
