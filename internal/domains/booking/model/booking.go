package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses. The schema reserves pending but the engine only
// ever creates confirmed and transitions to cancelled; cancelled is
// terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking ties one user (the requester) to one talent and one schedule.
type Booking struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	TalentID   uuid.UUID `json:"talent_id"`
	ScheduleID uuid.UUID `json:"schedule_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookingDetail is a booking with its talent, schedule and participant
// info attached for display.
type BookingDetail struct {
	Booking

	TalentTitle       string    `json:"talent_title"`
	TalentDescription string    `json:"talent_description"`
	TalentCategory    string    `json:"talent_category"`
	TalentLocation    *string   `json:"talent_location"`
	TalentIsOnline    bool      `json:"talent_is_online"`
	TalentOwnerID     uuid.UUID `json:"talent_owner_id"`
	TalentOwnerName   string    `json:"talent_owner_name"`
	TalentOwnerEmail  string    `json:"talent_owner_email"`

	ScheduleDate      time.Time `json:"schedule_date"`
	ScheduleStartTime string    `json:"schedule_start_time"`
	ScheduleEndTime   string    `json:"schedule_end_time"`

	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
}
