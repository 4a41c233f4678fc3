package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateReviewRequest leaves a review on a confirmed booking.
type CreateReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookingID,
			validation.Required.Error("booking id is required"),
			is.UUID.Error("booking id must be a valid UUID"),
		),
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
			validation.Min(1).Error("rating must be between 1 and 5"),
			validation.Max(5).Error("rating must be between 1 and 5"),
		),
		validation.Field(&r.Comment,
			validation.Required.Error("comment is required"),
			validation.Length(1, 500).Error("comment cannot exceed 500 characters"),
		),
	)
}

// UpdateReviewRequest re-validates the same bounds as creation.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
			validation.Min(1).Error("rating must be between 1 and 5"),
			validation.Max(5).Error("rating must be between 1 and 5"),
		),
		validation.Field(&r.Comment,
			validation.Required.Error("comment is required"),
			validation.Length(1, 500).Error("comment cannot exceed 500 characters"),
		),
	)
}

// CanReviewResult is the read-only eligibility check used by the UI
// to decide whether to offer the review action.
type CanReviewResult struct {
	CanReview bool    `json:"can_review"`
	Reason    string  `json:"reason,omitempty"`
	Review    *Review `json:"review,omitempty"`
}

// ReviewListResult is a list of reviews with the aggregate rating,
// rendered to one decimal place.
type ReviewListResult struct {
	Reviews       []*ReviewDetail `json:"reviews"`
	Count         int             `json:"count"`
	AverageRating string          `json:"average_rating"`
}
