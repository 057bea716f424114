// internal/app/store/donations/donationstore.go
package donationstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	campaignstore "github.com/dalemusser/pesantrenhub/internal/app/store/campaigns"
	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/txn"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var SearchFields = []string{"donor_name", "donor_email", "receipt_number", "campaign"}

// DefaultCurrency applies when a donation arrives without one.
const DefaultCurrency = "IDR"

// campaignLedger is the part of the campaign store a donation write needs.
type campaignLedger interface {
	GetActive(ctx context.Context, slug string) (models.Campaign, error)
	ApplyDonation(ctx context.Context, slug string, amount float64) (models.Campaign, error)
}

type Store struct {
	*mongostore.Collection[models.Donation]

	client    *mongo.Client
	campaigns campaignLedger
	log       *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := mongostore.New[models.Donation](db, models.CollDonations, "Donation").
		WithConflictMessage("A donation with this receipt number already exists.")
	return &Store{
		Collection: c,
		client:     db.Client(),
		campaigns:  campaignstore.New(db),
		log:        logger,
	}
}

// ReceiptNumber returns "RCP-YYYYMMDD-XXXXXXXX" for a donation made at t.
func ReceiptNumber(t time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("RCP-%s-%s", t.UTC().Format("20060102"), id[:8])
}

// prepare fills ids, defaults and timestamps for a new donation.
func prepare(d models.Donation, now time.Time) models.Donation {
	d.ID = primitive.NewObjectID()
	d.DonorNameCI = text.Fold(d.DonorName)
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = models.PaymentPending
	}
	if strings.TrimSpace(d.ReceiptNumber) == "" {
		d.ReceiptNumber = ReceiptNumber(now)
	}
	d.Reconciliation = ""
	d.Stamp("", now)
	d.CreatedAt = now
	d.UpdatedAt = now
	return d
}

// Create records d. When d names a campaign, the campaign's totals are
// updated together with the insert; see Record.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	d = prepare(d, time.Now().UTC())
	if d.Campaign == "" {
		if err := s.Insert(ctx, d); err != nil {
			return models.Donation{}, err
		}
		return d, nil
	}
	return s.record(ctx, d)
}

// record writes a campaign donation. Inside a transaction the campaign
// update runs first, so a missing or inactive campaign aborts before the
// donation exists. Without transaction support the writes run in order:
// check, insert, update; a failed update marks the donation orphaned.
func (s *Store) record(ctx context.Context, d models.Donation) (models.Donation, error) {
	err := txn.Run(ctx, s.client, func(sc mongo.SessionContext) error {
		if _, err := s.campaigns.ApplyDonation(sc, d.Campaign, d.Amount); err != nil {
			return err
		}
		return s.Insert(sc, d)
	})
	if err == nil {
		return d, nil
	}
	if !txn.IsNotSupported(err) {
		return models.Donation{}, err
	}

	s.log.Debug("transactions unavailable; recording donation sequentially",
		zap.String("receipt", d.ReceiptNumber))
	return s.recordSequential(ctx, d)
}

func (s *Store) recordSequential(ctx context.Context, d models.Donation) (models.Donation, error) {
	if _, err := s.campaigns.GetActive(ctx, d.Campaign); err != nil {
		return models.Donation{}, err
	}
	if err := s.Insert(ctx, d); err != nil {
		return models.Donation{}, err
	}
	if _, err := s.campaigns.ApplyDonation(ctx, d.Campaign, d.Amount); err != nil {
		s.log.Error("campaign update failed after donation insert; marking orphaned",
			zap.String("receipt", d.ReceiptNumber),
			zap.String("campaign", d.Campaign),
			zap.Error(err))
		s.markOrphaned(ctx, d.ID)
		return models.Donation{}, err
	}
	return d, nil
}

func (s *Store) markOrphaned(ctx context.Context, id primitive.ObjectID) {
	_, err := s.C.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"reconciliation": models.ReconciliationOrphaned,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		s.log.Error("could not mark donation orphaned", zap.String("id", id.Hex()), zap.Error(err))
	}
}

// Update writes the editable fields of d. prevStatus is the stored payment
// status before the edit. The campaign link and amount already applied to
// a campaign are not re-linked.
func (s *Store) Update(ctx context.Context, d models.Donation, prevStatus string) (models.Donation, error) {
	now := time.Now().UTC()
	d.Stamp(prevStatus, now)

	set := bson.M{
		"donor_name":     d.DonorName,
		"donor_name_ci":  text.Fold(d.DonorName),
		"donor_email":    d.DonorEmail,
		"donor_phone":    d.DonorPhone,
		"payment_method": d.PaymentMethod,
		"payment_status": d.PaymentStatus,
		"payment_date":   d.PaymentDate,
		"is_anonymous":   d.IsAnonymous,
		"message":        d.Message,
		"updated_at":     now,
	}
	if d.Currency != "" {
		set["currency"] = d.Currency
	}
	return s.UpdateByID(ctx, d.ID, bson.M{"$set": set}, nil, "")
}
