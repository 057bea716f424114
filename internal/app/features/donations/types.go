package donations

import (
	"strings"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
)

// pledge is the public donation form. It is always recorded as pending.
type pledge struct {
	DonorName     string  `json:"donorName" validate:"required,max=120" label:"Name"`
	DonorEmail    string  `json:"donorEmail" validate:"omitempty,mailaddr,max=254" label:"Email"`
	DonorPhone    string  `json:"donorPhone" validate:"max=20" label:"Phone"`
	Amount        float64 `json:"amount" validate:"gt=0" label:"Amount"`
	Currency      string  `json:"currency" validate:"omitempty,len=3,alpha" label:"Currency"`
	Campaign      string  `json:"campaign" validate:"omitempty,slug" label:"Campaign"`
	PaymentMethod string  `json:"paymentMethod" validate:"max=40" label:"Payment method"`
	IsAnonymous   bool    `json:"isAnonymous"`
	Message       string  `json:"message" validate:"max=500" label:"Message"`
}

func (p *pledge) normalize() {
	p.DonorName = normalize.Name(p.DonorName)
	p.DonorEmail = normalize.Email(p.DonorEmail)
	p.DonorPhone = normalize.Phone(p.DonorPhone)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	p.Campaign = strings.ToLower(strings.TrimSpace(p.Campaign))
	p.PaymentMethod = strings.TrimSpace(p.PaymentMethod)
	p.Message = htmlsanitize.Text(p.Message)
}

func (p pledge) donation() models.Donation {
	return models.Donation{
		DonorName:     p.DonorName,
		DonorEmail:    p.DonorEmail,
		DonorPhone:    p.DonorPhone,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Campaign:      p.Campaign,
		PaymentMethod: p.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		IsAnonymous:   p.IsAnonymous,
		Message:       p.Message,
	}
}

// donationInput is the admin create and update body.
type donationInput struct {
	DonorName     string  `json:"donorName" validate:"required,max=120" label:"Name"`
	DonorEmail    string  `json:"donorEmail" validate:"omitempty,mailaddr,max=254" label:"Email"`
	DonorPhone    string  `json:"donorPhone" validate:"max=20" label:"Phone"`
	Amount        float64 `json:"amount" validate:"gt=0" label:"Amount"`
	Currency      string  `json:"currency" validate:"omitempty,len=3,alpha" label:"Currency"`
	Campaign      string  `json:"campaign" validate:"omitempty,slug" label:"Campaign"`
	PaymentMethod string  `json:"paymentMethod" validate:"max=40" label:"Payment method"`
	PaymentStatus string  `json:"paymentStatus" validate:"oneof=pending completed failed refunded" label:"Payment status"`
	PaymentDate   string  `json:"paymentDate" validate:"omitempty,date" label:"Payment date"`
	ReceiptNumber string  `json:"receiptNumber" validate:"max=60" label:"Receipt number"`
	IsAnonymous   bool    `json:"isAnonymous"`
	Message       string  `json:"message" validate:"max=1000" label:"Message"`
}

func newInput() donationInput {
	return donationInput{PaymentStatus: models.PaymentPending}
}

func inputFrom(d models.Donation) donationInput {
	in := donationInput{
		DonorName:     d.DonorName,
		DonorEmail:    d.DonorEmail,
		DonorPhone:    d.DonorPhone,
		Amount:        d.Amount,
		Currency:      d.Currency,
		Campaign:      d.Campaign,
		PaymentMethod: d.PaymentMethod,
		PaymentStatus: d.PaymentStatus,
		ReceiptNumber: d.ReceiptNumber,
		IsAnonymous:   d.IsAnonymous,
		Message:       d.Message,
	}
	if d.PaymentDate != nil {
		in.PaymentDate = d.PaymentDate.UTC().Format(time.RFC3339)
	}
	return in
}

func (in *donationInput) normalize() {
	in.DonorName = normalize.Name(in.DonorName)
	in.DonorEmail = normalize.Email(in.DonorEmail)
	in.DonorPhone = normalize.Phone(in.DonorPhone)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.Campaign = strings.ToLower(strings.TrimSpace(in.Campaign))
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.PaymentStatus = normalize.Status(in.PaymentStatus)
	in.PaymentDate = strings.TrimSpace(in.PaymentDate)
	in.ReceiptNumber = strings.ToUpper(strings.TrimSpace(in.ReceiptNumber))
	in.Message = strings.TrimSpace(in.Message)
}

func (in donationInput) applyTo(d *models.Donation) {
	d.DonorName = in.DonorName
	d.DonorEmail = in.DonorEmail
	d.DonorPhone = in.DonorPhone
	d.Amount = in.Amount
	d.Currency = in.Currency
	d.Campaign = in.Campaign
	d.PaymentMethod = in.PaymentMethod
	d.PaymentStatus = in.PaymentStatus
	d.PaymentDate = nil
	if t, ok := inputval.ParseDate(in.PaymentDate); ok {
		d.PaymentDate = &t
	}
	d.ReceiptNumber = in.ReceiptNumber
	d.IsAnonymous = in.IsAnonymous
	d.Message = in.Message
}

// checkLocked rejects edits to the fields already applied to a campaign.
func (in donationInput) checkLocked(stored models.Donation, res *inputval.Result) {
	if in.Amount != stored.Amount {
		res.Add("amount", "Amount cannot be changed after the donation is recorded.")
	}
	if in.Campaign != stored.Campaign {
		res.Add("campaign", "Campaign cannot be changed after the donation is recorded.")
	}
	if in.ReceiptNumber != stored.ReceiptNumber {
		res.Add("receiptNumber", "Receipt number cannot be changed.")
	}
}
