package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateBookingRequest claims one schedule slot of a talent.
type CreateBookingRequest struct {
	TalentID   string `json:"talent_id" binding:"required"`
	ScheduleID string `json:"schedule_id" binding:"required"`
}

func (r CreateBookingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TalentID,
			validation.Required.Error("talent id is required"),
			is.UUID.Error("talent id must be a valid UUID"),
		),
		validation.Field(&r.ScheduleID,
			validation.Required.Error("schedule id is required"),
			is.UUID.Error("schedule id must be a valid UUID"),
		),
	)
}

// UpdateBookingRequest carries a target status. Only the
// confirmed to cancelled transition is accepted; the check is
// enforced in the service against the current status.
type UpdateBookingRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r UpdateBookingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In(StatusPending, StatusConfirmed, StatusCancelled).Error("invalid status"),
		),
	)
}
