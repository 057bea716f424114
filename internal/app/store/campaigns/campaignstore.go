// internal/app/store/campaigns/campaignstore.go
package campaignstore

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
)

var SearchFields = []string{"title", "description"}

// ErrCampaignNotFound is returned when a donation names a campaign that is
// missing or not active.
var ErrCampaignNotFound = apperr.NotFound("Campaign not found or not active.")

// PublicStatuses are the statuses visible on the public site.
var PublicStatuses = []string{models.CampaignActive, models.CampaignCompleted}

type Store struct {
	*mongostore.Collection[models.Campaign]
}

func New(db *mongo.Database) *Store {
	c := mongostore.New[models.Campaign](db, models.CollCampaigns, "Campaign").
		WithConflictMessage("A campaign with this slug already exists.")
	return &Store{Collection: c}
}

// recompute is the pipeline tail that refreshes progress from collected and
// goal and completes an active campaign that reached its goal. It mirrors
// models.Campaign.Recompute.
var recompute = bson.A{
	bson.M{"$set": bson.M{
		"progress": bson.M{"$cond": bson.A{
			bson.M{"$gt": bson.A{"$goal", 0}},
			bson.M{"$round": bson.A{
				bson.M{"$min": bson.A{100, bson.M{"$multiply": bson.A{bson.M{"$divide": bson.A{"$collected", "$goal"}}, 100}}}},
				2,
			}},
			0,
		}},
	}},
	bson.M{"$set": bson.M{
		"status": bson.M{"$cond": bson.A{
			bson.M{"$and": bson.A{
				bson.M{"$eq": bson.A{"$status", models.CampaignActive}},
				bson.M{"$gt": bson.A{"$goal", 0}},
				bson.M{"$gte": bson.A{"$collected", "$goal"}},
			}},
			models.CampaignCompleted,
			"$status",
		}},
	}},
}

func pipeline(first bson.M) bson.A {
	return append(bson.A{bson.M{"$set": first}}, recompute...)
}

func (s *Store) Create(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	now := time.Now().UTC()

	c.ID = primitive.NewObjectID()
	c.TitleCI = text.Fold(c.Title)
	if c.Status == "" {
		c.Status = models.CampaignDraft
	}
	c.Recompute()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.Insert(ctx, c); err != nil {
		return models.Campaign{}, err
	}
	return c, nil
}

// Update writes the editable fields of c and recomputes progress in the
// same write. Totals are only overwritten when setTotals is true; otherwise
// donations recorded concurrently are kept.
func (s *Store) Update(ctx context.Context, c models.Campaign, setTotals bool) (models.Campaign, error) {
	set := bson.M{
		"title":       c.Title,
		"title_ci":    text.Fold(c.Title),
		"slug":        c.Slug,
		"description": c.Description,
		"image":       c.Image,
		"goal":        c.Goal,
		"status":      c.Status,
		"start_date":  c.StartDate,
		"end_date":    c.EndDate,
		"updated_at":  time.Now().UTC(),
	}
	if setTotals {
		set["collected"] = c.Collected
		set["donor_count"] = c.DonorCount
	}
	return s.UpdateByID(ctx, c.ID, pipeline(mongostore.Literal(set)), nil, "")
}

// ApplyDonation adds amount to the active campaign slug in one atomic
// update: collected and donor count grow, progress is recomputed, and the
// campaign completes once the goal is met. It returns ErrCampaignNotFound
// when no active campaign has that slug. ctx may be a transaction's
// session context.
func (s *Store) ApplyDonation(ctx context.Context, slug string, amount float64) (models.Campaign, error) {
	first := bson.M{
		"collected":   bson.M{"$add": bson.A{"$collected", amount}},
		"donor_count": bson.M{"$add": bson.A{"$donor_count", 1}},
		"updated_at":  bson.M{"$literal": time.Now().UTC()},
	}
	out, err := s.FindOneAndUpdate(ctx, bson.M{"slug": slug, "status": models.CampaignActive}, pipeline(first))
	if errors.Is(err, apperr.ErrNotFound) {
		return models.Campaign{}, ErrCampaignNotFound
	}
	return out, err
}

// GetActive returns the active campaign with slug.
func (s *Store) GetActive(ctx context.Context, slug string) (models.Campaign, error) {
	c, err := s.FindOne(ctx, bson.M{"slug": slug, "status": models.CampaignActive})
	if errors.Is(err, apperr.ErrNotFound) {
		return models.Campaign{}, ErrCampaignNotFound
	}
	return c, err
}

// GetPublic returns an active or completed campaign by id or slug.
func (s *Store) GetPublic(ctx context.Context, key string) (models.Campaign, error) {
	return s.GetByKey(ctx, key, bson.M{"status": bson.M{"$in": PublicStatuses}})
}
