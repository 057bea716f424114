package models

import (
	"math"
	"time"
)

// WordsPerMinute is the reading speed used for blog read times.
const WordsPerMinute = 200

// ReadTimeMinutes returns ceil(words/WordsPerMinute), never less than 1.
func ReadTimeMinutes(words int) int {
	m := int(math.Ceil(float64(words) / WordsPerMinute))
	if m < 1 {
		return 1
	}
	return m
}

func stamp(now time.Time) *time.Time {
	t := now.UTC()
	return &t
}

// Stamp sets PublishedAt the first time the item is published.
func (n *News) Stamp(now time.Time) {
	if n.Status == StatusPublished && n.PublishedAt == nil {
		n.PublishedAt = stamp(now)
	}
}

// Stamp sets PublishedAt the first time the post is published.
func (b *BlogPost) Stamp(now time.Time) {
	if b.Status == StatusPublished && b.PublishedAt == nil {
		b.PublishedAt = stamp(now)
	}
}

// Stamp sets PaymentDate when the donation moves to completed from prev.
// A payment date supplied by the caller is kept.
func (d *Donation) Stamp(prev string, now time.Time) {
	if d.PaymentStatus == PaymentCompleted && prev != PaymentCompleted && d.PaymentDate == nil {
		d.PaymentDate = stamp(now)
	}
}

// Stamp sets ApprovedAt when the testimonial moves to approved from prev.
func (t *Testimonial) Stamp(prev string, now time.Time) {
	if t.Status == TestimonialApproved && prev != TestimonialApproved {
		t.ApprovedAt = stamp(now)
	}
}

// Stamp records who replied and when, on the move to replied from prev.
func (m *ContactMessage) Stamp(prev, by string, now time.Time) {
	if m.Status == MessageReplied && prev != MessageReplied {
		m.RespondedAt = stamp(now)
		m.RespondedBy = by
	}
}
