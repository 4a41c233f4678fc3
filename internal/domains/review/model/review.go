package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is the one-per-booking rating left by the requester.
// ProviderID is the talent's owner captured at creation time; it is
// not re-derived if the talent later changes hands or disappears.
type Review struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	TalentID   uuid.UUID `json:"talent_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewDetail is a review with display fields attached. The talent
// reference is weak, so TalentTitle may be nil after a cascade delete.
type ReviewDetail struct {
	Review

	ReviewerName         string  `json:"reviewer_name"`
	ReviewerProfileImage *string `json:"reviewer_profile_image"`
	TalentTitle          *string `json:"talent_title"`
	ProviderName         string  `json:"provider_name"`
}
