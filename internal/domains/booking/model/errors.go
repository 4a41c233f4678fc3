package model

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrTalentNotFound    = errors.New("talent not found")
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrInvalidSchedule   = errors.New("schedule does not belong to this talent")
	ErrSelfBooking       = errors.New("you cannot book your own talent")
	ErrScheduleFull      = errors.New("this schedule is fully booked")
	ErrDuplicateBooking  = errors.New("you have already booked this schedule")
	ErrForbidden         = errors.New("you do not have permission to access this booking")
	ErrInvalidTransition = errors.New("only confirmed bookings can be cancelled")
)
