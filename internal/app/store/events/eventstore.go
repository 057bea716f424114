// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var SearchFields = []string{"title", "description", "location"}

var (
	ErrOverCapacity       = apperr.Invalid("registered", "Registered cannot exceed capacity.")
	ErrCapacityBelowCount = apperr.Conflict("Capacity is below the number of registrations.")
	ErrFull               = apperr.Conflict("Event is full.")
	ErrRegistrationClosed = apperr.Conflict("Registration for this event is closed.")
)

// DefaultCurrency applies when an event has a price but no currency.
const DefaultCurrency = "IDR"

type Store struct {
	*mongostore.Collection[models.Event]
}

func New(db *mongo.Database) *Store {
	c := mongostore.New[models.Event](db, models.CollEvents, "Event").
		WithConflictMessage("An event with this slug already exists.")
	return &Store{Collection: c}
}

// CheckCapacity reports ErrOverCapacity when an event has more
// registrations than seats.
func CheckCapacity(e models.Event) error {
	if e.Registered > e.Capacity {
		return ErrOverCapacity
	}
	return nil
}

// hasSeat matches events that can take one more registration.
var hasSeat = bson.M{"$lt": bson.A{"$registered", "$capacity"}}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	if err := CheckCapacity(e); err != nil {
		return models.Event{}, err
	}
	now := time.Now().UTC()

	e.ID = primitive.NewObjectID()
	e.TitleCI = text.Fold(e.Title)
	if e.Status == "" {
		e.Status = models.EventDraft
	}
	if e.Currency == "" {
		e.Currency = DefaultCurrency
	}
	e.Date = e.Date.UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.Insert(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Update writes the editable fields of e. When setRegistered is false the
// stored registration count is kept, and the write only succeeds while that
// count still fits the new capacity.
func (s *Store) Update(ctx context.Context, e models.Event, setRegistered bool) (models.Event, error) {
	set := bson.M{
		"title":             e.Title,
		"title_ci":          text.Fold(e.Title),
		"slug":              e.Slug,
		"description":       e.Description,
		"date":              e.Date.UTC(),
		"end_date":          e.EndDate,
		"time":              e.Time,
		"location":          e.Location,
		"image":             e.Image,
		"category":          e.Category,
		"capacity":          e.Capacity,
		"registration_open": e.RegistrationOpen,
		"price":             e.Price,
		"currency":          e.Currency,
		"status":            e.Status,
		"featured":          e.Featured,
		"updated_at":        time.Now().UTC(),
	}

	var guard bson.M
	if setRegistered {
		if err := CheckCapacity(e); err != nil {
			return models.Event{}, err
		}
		set["registered"] = e.Registered
	} else {
		guard = bson.M{"registered": bson.M{"$lte": e.Capacity}}
	}

	return s.UpdateByID(ctx, e.ID, bson.M{"$set": set}, guard, apperr.Message(ErrCapacityBelowCount, ""))
}

// GetPublished returns the published event with id or slug key.
func (s *Store) GetPublished(ctx context.Context, key string) (models.Event, error) {
	return s.GetByKey(ctx, key, bson.M{"status": models.EventPublished})
}

// Register takes one seat on the published event key. The seat is taken in
// a single conditional update, so concurrent registrations never push
// Registered past Capacity.
func (s *Store) Register(ctx context.Context, key string) (models.Event, error) {
	filter := mongostore.KeyFilter(key, bson.M{
		"status":            models.EventPublished,
		"registration_open": true,
		"$expr":             hasSeat,
	})
	out, err := s.FindOneAndUpdate(ctx, filter, bson.M{
		"$inc": bson.M{"registered": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err == nil || !errors.Is(err, apperr.ErrNotFound) {
		return out, err
	}

	// Work out why the update matched nothing.
	ev, gerr := s.GetPublished(ctx, key)
	if gerr != nil {
		return models.Event{}, gerr
	}
	if !ev.RegistrationOpen {
		return models.Event{}, ErrRegistrationClosed
	}
	return models.Event{}, ErrFull
}

// Recent returns the n most recently created events.
func (s *Store) Recent(ctx context.Context, n int64) ([]models.Event, error) {
	return s.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(n))
}

// UpcomingFilter matches published events on or after now.
func UpcomingFilter(now time.Time) bson.M {
	return bson.M{"status": models.EventPublished, "date": bson.M{"$gte": now.UTC()}}
}
