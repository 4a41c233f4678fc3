package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"talenthub-backend/internal/domains/review/model"
	"talenthub-backend/internal/domains/review/service"
	"talenthub-backend/internal/shared/middleware"
	"talenthub-backend/internal/shared/response"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Bind request body
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: Call service (validation happens inside)
	review, err := h.reviewService.Create(c.Request.Context(), userID, req)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusCreated, review)
}

// CanReview handles GET /reviews/can-review/:bookingId
func (h *ReviewHandler) CanReview(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse booking ID
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "Invalid booking ID")
		return
	}

	// Step 3: Call service
	result, err := h.reviewService.CanReview(c.Request.Context(), userID, bookingID)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusOK, result)
}

// Update handles PUT /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse review ID
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	// Step 3: Bind request body
	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 4: Call service
	review, err := h.reviewService.Update(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 5: Return success
	response.Success(c, http.StatusOK, review)
}

// Delete handles DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse review ID
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	// Step 3: Call service
	if err := h.reviewService.Delete(c.Request.Context(), userID, reviewID); err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// ListByTalent handles GET /reviews/talent/:talentId (public)
func (h *ReviewHandler) ListByTalent(c *gin.Context) {
	talentID, err := uuid.Parse(c.Param("talentId"))
	if err != nil {
		response.BadRequest(c, "Invalid talent ID")
		return
	}

	result, err := h.reviewService.ListByTalent(c.Request.Context(), talentID)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListByProvider handles GET /reviews/provider/:providerId (public)
func (h *ReviewHandler) ListByProvider(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		response.BadRequest(c, "Invalid provider ID")
		return
	}

	result, err := h.reviewService.ListByProvider(c.Request.Context(), providerID)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, result)
}

// MyReviews handles GET /reviews/my-reviews
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	reviews, err := h.reviewService.MyReviews(c.Request.Context(), userID)
	if err != nil {
		statusCode, errCode := mapReviewError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, reviews, &response.Meta{Count: len(reviews)})
}

// mapReviewError maps review domain errors to HTTP status codes
func mapReviewError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrReviewNotFound):
		return http.StatusNotFound, "REVIEW_NOT_FOUND"
	case errors.Is(err, model.ErrBookingNotFound):
		return http.StatusNotFound, "BOOKING_NOT_FOUND"
	case errors.Is(err, model.ErrForbidden), errors.Is(err, model.ErrNotOwner):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, model.ErrNotConfirmed):
		return http.StatusBadRequest, "INVALID_STATE"
	case errors.Is(err, model.ErrDuplicateReview):
		return http.StatusConflict, "DUPLICATE_REVIEW"
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return http.StatusBadRequest, "VALIDATION_ERROR"
		}
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
