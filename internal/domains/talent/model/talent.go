package model

import (
	"time"

	"github.com/google/uuid"
)

// Categories form a closed set checked at validation time,
// not enforced by the schema.
const (
	CategoryProgramming = "programming"
	CategoryDesign      = "design"
	CategoryLanguage    = "language"
	CategoryMusic       = "music"
	CategoryFitness     = "fitness"
	CategoryCooking     = "cooking"
	CategoryPhotography = "photography"
	CategoryMarketing   = "marketing"
	CategoryWriting     = "writing"
	CategoryOther       = "other"
)

var Categories = []string{
	CategoryProgramming,
	CategoryDesign,
	CategoryLanguage,
	CategoryMusic,
	CategoryFitness,
	CategoryCooking,
	CategoryPhotography,
	CategoryMarketing,
	CategoryWriting,
	CategoryOther,
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Talent is a published offer to teach a skill, owned by one user.
type Talent struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Location        *string   `json:"location"`
	IsOnline        bool      `json:"is_online"`
	MaxParticipants int       `json:"max_participants"`
	Image           *string   `json:"image"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Denormalized owner info attached on reads
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

// Schedule is a bookable date/time instance of a Talent.
// CurrentParticipants is derived: it mirrors the count of
// non-cancelled bookings and is rewritten after every booking
// mutation, never incremented in place.
type Schedule struct {
	ID                  uuid.UUID `json:"id"`
	TalentID            uuid.UUID `json:"talent_id"`
	Date                time.Time `json:"date"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	CurrentParticipants int       `json:"current_participants"`
	CreatedAt           time.Time `json:"created_at"`
}

// TalentDetail is Talent with its schedules attached,
// ordered by date then start time.
type TalentDetail struct {
	Talent
	Schedules []*Schedule `json:"schedules"`
}
