package models

import (
	"testing"
	"time"
)

func TestReadTimeMinutes(t *testing.T) {
	tests := []struct {
		words, want int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
		{1001, 6},
	}
	for _, tt := range tests {
		if got := ReadTimeMinutes(tt.words); got != tt.want {
			t.Errorf("ReadTimeMinutes(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestNews_Stamp_FirstPublishOnly(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	n := News{Status: StatusDraft}
	n.Stamp(first)
	if n.PublishedAt != nil {
		t.Fatal("draft should not get PublishedAt")
	}

	n.Status = StatusPublished
	n.Stamp(first)
	if n.PublishedAt == nil || !n.PublishedAt.Equal(first) {
		t.Fatalf("PublishedAt: got %v, want %v", n.PublishedAt, first)
	}

	n.Stamp(later)
	if !n.PublishedAt.Equal(first) {
		t.Errorf("republish moved PublishedAt to %v", n.PublishedAt)
	}
}

func TestTestimonial_Stamp(t *testing.T) {
	now := time.Now()

	tm := Testimonial{Status: TestimonialApproved}
	tm.Stamp(TestimonialPending, now)
	if tm.ApprovedAt == nil {
		t.Fatal("expected ApprovedAt on pending -> approved")
	}

	prev := *tm.ApprovedAt
	tm.Stamp(TestimonialApproved, now.Add(time.Hour))
	if !tm.ApprovedAt.Equal(prev) {
		t.Error("ApprovedAt should not change when already approved")
	}
}

func TestContactMessage_Stamp(t *testing.T) {
	now := time.Now()

	m := ContactMessage{Status: MessageRead}
	m.Stamp(MessageUnread, "admin@example.com", now)
	if m.RespondedAt != nil || m.RespondedBy != "" {
		t.Fatal("read is not a reply")
	}

	m.Status = MessageReplied
	m.Stamp(MessageRead, "admin@example.com", now)
	if m.RespondedAt == nil || m.RespondedBy != "admin@example.com" {
		t.Errorf("got respondedAt=%v by=%q", m.RespondedAt, m.RespondedBy)
	}
}

func TestDonation_Stamp(t *testing.T) {
	now := time.Now()

	d := Donation{PaymentStatus: PaymentCompleted}
	d.Stamp("", now)
	if d.PaymentDate == nil {
		t.Fatal("expected PaymentDate for a completed donation")
	}

	supplied := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := Donation{PaymentStatus: PaymentCompleted, PaymentDate: &supplied}
	d2.Stamp(PaymentPending, now)
	if !d2.PaymentDate.Equal(supplied) {
		t.Errorf("supplied PaymentDate overwritten: %v", d2.PaymentDate)
	}

	d3 := Donation{PaymentStatus: PaymentPending}
	d3.Stamp("", now)
	if d3.PaymentDate != nil {
		t.Error("pending donation should have no PaymentDate")
	}
}
