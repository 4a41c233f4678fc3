package model

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrForbidden       = errors.New("you can only review your own bookings")
	ErrNotOwner        = errors.New("you can only modify your own reviews")
	ErrNotConfirmed    = errors.New("only confirmed bookings can be reviewed")
	ErrDuplicateReview = errors.New("you have already reviewed this booking")
)

// CanReview reasons surfaced to the client
const (
	ReasonAlreadyReviewed = "already reviewed"
	ReasonNotConfirmed    = "only confirmed bookings can be reviewed"
)
