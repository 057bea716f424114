package donationstore_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	campaignstore "github.com/dalemusser/pesantrenhub/internal/app/store/campaigns"
	donationstore "github.com/dalemusser/pesantrenhub/internal/app/store/donations"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestReceiptNumber(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	got := donationstore.ReceiptNumber(at)
	if !regexp.MustCompile(`^RCP-20240309-[0-9A-F]{8}$`).MatchString(got) {
		t.Errorf("ReceiptNumber = %q", got)
	}
	if got == donationstore.ReceiptNumber(at) {
		t.Error("receipt numbers should differ between calls")
	}
}

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Donation{DonorName: "Hamba Allah", Amount: 50000})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ReceiptNumber == "" {
		t.Error("expected a generated receipt number")
	}
	if created.Currency != donationstore.DefaultCurrency {
		t.Errorf("Currency: got %q", created.Currency)
	}
	if created.PaymentStatus != models.PaymentPending {
		t.Errorf("PaymentStatus: got %q", created.PaymentStatus)
	}
	if created.PaymentDate != nil {
		t.Error("pending donation should have no PaymentDate")
	}
}

func TestStore_Create_KeepsReceipt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Donation{
		DonorName: "A", Amount: 1, ReceiptNumber: "RCP-MANUAL-1", PaymentStatus: models.PaymentCompleted,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ReceiptNumber != "RCP-MANUAL-1" {
		t.Errorf("ReceiptNumber: got %q", created.ReceiptNumber)
	}
	if created.PaymentDate == nil {
		t.Error("completed donation should have a PaymentDate")
	}
}

func TestStore_Create_LinksCampaign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	campaigns := campaignstore.New(db)
	store := donationstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := campaigns.Create(ctx, models.Campaign{
		Title: "Pembangunan", Slug: "pembangunan", Goal: 1000, Status: models.CampaignActive,
	}); err != nil {
		t.Fatalf("campaign Create: %v", err)
	}

	if _, err := store.Create(ctx, models.Donation{DonorName: "A", Amount: 600, Campaign: "pembangunan"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, models.Donation{DonorName: "B", Amount: 400, Campaign: "pembangunan"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	c, err := campaigns.FindOne(ctx, bson.M{"slug": "pembangunan"})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if c.Collected != 1000 || c.DonorCount != 2 || c.Progress != 100 {
		t.Errorf("got collected=%v donors=%d progress=%v", c.Collected, c.DonorCount, c.Progress)
	}
	if c.Status != models.CampaignCompleted {
		t.Errorf("Status: got %q, want completed", c.Status)
	}

	n, err := store.Count(ctx, bson.M{"reconciliation": models.ReconciliationOrphaned})
	if err != nil || n != 0 {
		t.Errorf("orphaned donations: n=%d err=%v", n, err)
	}
}

func TestStore_Create_UnknownCampaignWritesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	campaigns := campaignstore.New(db)
	store := donationstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := campaigns.Create(ctx, models.Campaign{
		Title: "Draft", Slug: "draft-campaign", Goal: 1000, Status: models.CampaignDraft,
	}); err != nil {
		t.Fatalf("campaign Create: %v", err)
	}

	for _, slug := range []string{"missing", "draft-campaign"} {
		_, err := store.Create(ctx, models.Donation{DonorName: "A", Amount: 10, Campaign: slug})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("%s: got %v, want ErrNotFound", slug, err)
		}
	}

	n, err := store.Count(ctx, bson.M{})
	if err != nil || n != 0 {
		t.Errorf("donations written: n=%d err=%v", n, err)
	}
}

func TestStore_Update_StampsPaymentDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Donation{DonorName: "A", Amount: 10})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	edit := created
	edit.PaymentStatus = models.PaymentCompleted
	updated, err := store.Update(ctx, edit, created.PaymentStatus)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.PaymentDate == nil {
		t.Error("expected PaymentDate after completion")
	}
	if updated.Amount != 10 || updated.ReceiptNumber != created.ReceiptNumber {
		t.Errorf("immutable fields changed: %+v", updated)
	}
}
