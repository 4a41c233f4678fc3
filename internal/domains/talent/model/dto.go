package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"talenthub-backend/internal/shared/utils"
)

// ========================================
// TALENT DTOs
// ========================================

// ScheduleInput is one schedule entry inside a create/add request.
type ScheduleInput struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

func (s ScheduleInput) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Date,
			validation.Required.Error("date is required"),
			validation.By(validateNotPastDate),
		),
		validation.Field(&s.StartTime,
			validation.Required.Error("start time is required"),
			validation.By(validateTimeOfDay),
		),
		validation.Field(&s.EndTime,
			validation.Required.Error("end time is required"),
			validation.By(validateTimeOfDay),
			validation.By(s.validateEndAfterStart),
		),
	)
}

func validateTimeOfDay(value interface{}) error {
	str, _ := value.(string)
	if !utils.IsValidTimeOfDay(str) {
		return ErrInvalidTime
	}
	return nil
}

func validateNotPastDate(value interface{}) error {
	str, _ := value.(string)
	date, err := time.Parse("2006-01-02", str)
	if err != nil {
		return errInvalidDateFormat
	}
	today := time.Now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return ErrPastDate
	}
	return nil
}

func (s ScheduleInput) validateEndAfterStart(value interface{}) error {
	// Only meaningful once both fields parse
	start, err := utils.TimeOfDayMinutes(s.StartTime)
	if err != nil {
		return nil
	}
	end, err := utils.TimeOfDayMinutes(s.EndTime)
	if err != nil {
		return nil
	}
	if end <= start {
		return ErrInvalidTimeRange
	}
	return nil
}

var errInvalidDateFormat = validation.NewError("invalid_date", "date must be in YYYY-MM-DD format")

// CreateTalentRequest publishes a new talent with its initial schedules.
type CreateTalentRequest struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	Category        string          `json:"category" binding:"required"`
	Location        *string         `json:"location"`
	IsOnline        bool            `json:"is_online"`
	MaxParticipants int             `json:"max_participants" binding:"required"`
	Schedules       []ScheduleInput `json:"schedules" binding:"required"`
}

func (r CreateTalentRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 100).Error("title cannot exceed 100 characters"),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.Length(1, 1000).Error("description cannot exceed 1000 characters"),
		),
		validation.Field(&r.Category,
			validation.Required.Error("category is required"),
			validation.By(validateCategory),
		),
		validation.Field(&r.Location,
			validation.When(r.Location != nil, validation.Length(1, 200).Error("location cannot exceed 200 characters")),
		),
		validation.Field(&r.MaxParticipants,
			validation.Required.Error("max participants is required"),
			validation.Min(1).Error("at least 1 participant is required"),
		),
	); err != nil {
		return err
	}

	// Offline talents must name a location
	if !r.IsOnline && (r.Location == nil || *r.Location == "") {
		return ErrLocationRequired
	}

	if len(r.Schedules) == 0 {
		return ErrNoSchedules
	}
	for _, s := range r.Schedules {
		if err := s.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func validateCategory(value interface{}) error {
	str, _ := value.(string)
	if !IsValidCategory(str) {
		return ErrInvalidCategory
	}
	return nil
}

// UpdateTalentRequest mutates an existing talent; all fields optional.
type UpdateTalentRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Location        *string `json:"location"`
	IsOnline        *bool   `json:"is_online"`
	MaxParticipants *int    `json:"max_participants"`
}

func (r UpdateTalentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil, validation.Length(1, 100).Error("title cannot exceed 100 characters")),
		),
		validation.Field(&r.Description,
			validation.When(r.Description != nil, validation.Length(1, 1000).Error("description cannot exceed 1000 characters")),
		),
		validation.Field(&r.Category,
			validation.When(r.Category != nil, validation.By(validateCategory)),
		),
		validation.Field(&r.Location,
			validation.When(r.Location != nil, validation.Length(1, 200).Error("location cannot exceed 200 characters")),
		),
		validation.Field(&r.MaxParticipants,
			validation.When(r.MaxParticipants != nil, validation.Min(1).Error("at least 1 participant is required")),
		),
	)
}

// ListTalentsRequest carries the catalog filters.
type ListTalentsRequest struct {
	Category string `form:"category"`
	Location string `form:"location"`
	IsOnline *bool  `form:"is_online"`
	Search   string `form:"search"`
}

// AddScheduleRequest adds one schedule to an existing talent.
type AddScheduleRequest struct {
	ScheduleInput
}
