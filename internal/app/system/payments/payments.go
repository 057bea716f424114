// Package payments requests Midtrans Snap checkout tokens for public
// donations. The donation is recorded as pending; payment confirmation is
// applied by an administrator.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// ErrNotConfigured is returned by the Disabled gateway.
var ErrNotConfigured = errors.New("payment gateway is not configured")

// Order is what the donor is asked to pay.
type Order struct {
	ID     string // receipt number, used as the Midtrans order id
	Amount float64
	Name   string
	Email  string
	Phone  string
	Item   string
}

// Checkout is the Snap session handed back to the client.
type Checkout struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

// Gateway starts a hosted payment for an order.
type Gateway interface {
	Checkout(ctx context.Context, o Order) (Checkout, error)
	Enabled() bool
}

// Snap is the Midtrans Snap gateway.
type Snap struct {
	client snap.Client
}

// NewSnap returns a Snap gateway for the sandbox or production environment.
func NewSnap(serverKey string, production bool) *Snap {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	s := &Snap{}
	s.client.New(serverKey, env)
	return s
}

func (s *Snap) Enabled() bool { return true }

// Checkout creates a Snap transaction. Amounts are whole rupiah.
func (s *Snap) Checkout(_ context.Context, o Order) (Checkout, error) {
	req, err := snapRequest(o)
	if err != nil {
		return Checkout{}, err
	}
	resp, merr := s.client.CreateTransaction(req)
	if merr != nil {
		return Checkout{}, fmt.Errorf("midtrans: %s", merr.Error())
	}
	return Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func snapRequest(o Order) (*snap.Request, error) {
	amount := int64(math.Round(o.Amount))
	if amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	if o.ID == "" {
		return nil, errors.New("order id is required")
	}
	first, last, _ := strings.Cut(strings.TrimSpace(o.Name), " ")
	item := o.Item
	if item == "" {
		item = "Donasi"
	}
	return &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  o.ID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: o.Email,
			Phone: o.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    o.ID,
			Name:  truncate(item, 50),
			Price: amount,
			Qty:   1,
		}},
	}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Disabled is used when no Midtrans server key is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Checkout(context.Context, Order) (Checkout, error) {
	return Checkout{}, ErrNotConfigured
}
