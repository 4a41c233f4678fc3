package model

import "errors"

var (
	ErrTalentNotFound   = errors.New("talent not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrForbidden        = errors.New("you do not have permission to modify this talent")
	ErrNoSchedules      = errors.New("at least one schedule is required")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrLocationRequired = errors.New("location is required for offline talents")
	ErrPastDate         = errors.New("schedule date cannot be in the past")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrInvalidTime      = errors.New("time must be in HH:MM format")
)
