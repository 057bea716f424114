// internal/app/store/contacts/contactstore.go
package contactstore

import (
	"context"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var SearchFields = []string{"name", "email", "subject", "message"}

type Store struct {
	*mongostore.Collection[models.ContactMessage]
}

func New(db *mongo.Database) *Store {
	return &Store{Collection: mongostore.New[models.ContactMessage](db, models.CollContacts, "Message")}
}

// Create stores a new message as unread with normal priority unless set.
func (s *Store) Create(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	now := time.Now().UTC()

	m.ID = primitive.NewObjectID()
	if m.Status == "" {
		m.Status = models.MessageUnread
	}
	if m.Priority == "" {
		m.Priority = models.PriorityNormal
	}
	m.RespondedAt = nil
	m.RespondedBy = ""
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.Insert(ctx, m); err != nil {
		return models.ContactMessage{}, err
	}
	return m, nil
}

// Update writes the triage fields of m. Moving to replied from prevStatus
// records by as the responder.
func (s *Store) Update(ctx context.Context, m models.ContactMessage, prevStatus, by string) (models.ContactMessage, error) {
	now := time.Now().UTC()
	m.Stamp(prevStatus, by, now)

	set := bson.M{
		"status":       m.Status,
		"priority":     m.Priority,
		"reply_note":   m.ReplyNote,
		"responded_at": m.RespondedAt,
		"responded_by": m.RespondedBy,
		"updated_at":   now,
	}
	return s.UpdateByID(ctx, m.ID, bson.M{"$set": set}, nil, "")
}

// MarkRead moves an unread message to read. Other statuses are untouched.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.C.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.MessageUnread},
		bson.M{"$set": bson.M{"status": models.MessageRead, "updated_at": time.Now().UTC()}})
	if err != nil {
		return s.Err(err)
	}
	return nil
}
