package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

var PaymentStatuses = []string{PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded}

// ReconciliationOrphaned marks a donation whose campaign totals could not be updated.
const ReconciliationOrphaned = "orphaned"

// Donation is one gift. Campaign holds the campaign slug, not a reference.
type Donation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DonorName     string             `bson:"donor_name" json:"donorName"`
	DonorNameCI   string             `bson:"donor_name_ci" json:"-"`
	DonorEmail    string             `bson:"donor_email,omitempty" json:"donorEmail,omitempty"`
	DonorPhone    string             `bson:"donor_phone,omitempty" json:"donorPhone,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Campaign      string             `bson:"campaign,omitempty" json:"campaign,omitempty"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	PaymentStatus string             `bson:"payment_status" json:"paymentStatus"`
	PaymentDate   *time.Time         `bson:"payment_date,omitempty" json:"paymentDate,omitempty"`
	ReceiptNumber string             `bson:"receipt_number" json:"receiptNumber"`
	IsAnonymous   bool               `bson:"is_anonymous" json:"isAnonymous"`
	Message       string             `bson:"message,omitempty" json:"message,omitempty"`

	Reconciliation string `bson:"reconciliation,omitempty" json:"reconciliation,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// PublicName returns the name shown on public pages.
func (d Donation) PublicName() string {
	if d.IsAnonymous {
		return "Hamba Allah"
	}
	return d.DonorName
}
