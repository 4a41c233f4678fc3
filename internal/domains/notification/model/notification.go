package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	TypeBookingCreated   = "booking_created"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCancelled = "booking_cancelled"
	TypeTalentDeleted    = "talent_deleted"
	TypeReviewReceived   = "review_received"
	TypeScheduleReminder = "schedule_reminder"
)

// Notification is an event record addressed to one user. The talent
// and booking references are weak: the target may have been deleted
// since, so reads must tolerate a dangling id.
type Notification struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	RelatedTalent  *uuid.UUID `json:"related_talent"`
	RelatedBooking *uuid.UUID `json:"related_booking"`
	IsRead         bool       `json:"is_read"`
	CreatedAt      time.Time  `json:"created_at"`

	// Resolved on reads; nil when the referenced talent no longer exists.
	RelatedTalentTitle *string `json:"related_talent_title,omitempty"`
}
