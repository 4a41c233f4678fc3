package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"talenthub-backend/internal/domains/booking/model"
	"talenthub-backend/internal/domains/booking/service"
	"talenthub-backend/internal/shared/middleware"
	"talenthub-backend/internal/shared/response"
)

// =====================================================
// BOOKING HANDLER
// =====================================================

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /bookings
func (h *BookingHandler) Create(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Bind request body
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: Call service (validation happens inside)
	detail, err := h.bookingService.Create(c.Request.Context(), userID, req)
	if err != nil {
		statusCode, errCode := mapBookingError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusCreated, detail)
}

// Get handles GET /bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse booking ID
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid booking ID")
		return
	}

	// Step 3: Call service
	detail, err := h.bookingService.Get(c.Request.Context(), userID, bookingID)
	if err != nil {
		statusCode, errCode := mapBookingError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusOK, detail)
}

// ListMy handles GET /bookings
func (h *BookingHandler) ListMy(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.ListMyBookings(c.Request.Context(), userID)
	if err != nil {
		statusCode, errCode := mapBookingError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, bookings, &response.Meta{Count: len(bookings)})
}

// ListReceived handles GET /bookings/received
func (h *BookingHandler) ListReceived(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.ListReceivedBookings(c.Request.Context(), userID)
	if err != nil {
		statusCode, errCode := mapBookingError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, bookings, &response.Meta{Count: len(bookings)})
}

// ExportReceived handles GET /bookings/received/export
func (h *BookingHandler) ExportReceived(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Build the workbook
	f, err := h.bookingService.ExportReceivedBookings(c.Request.Context(), userID)
	if err != nil {
		statusCode, errCode := mapBookingError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 3: Stream the file
	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		response.InternalServerError(c, "failed to write export")
		return
	}
}

// Update handles PUT /bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse booking ID
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid booking ID")
		return
	}

	// Step 3: Bind request body
	var req model.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 4: Call service
	detail, err := h.bookingService.Update(c.Request.Context(), userID, bookingID, req)
	if err != nil {
		statusCode, errCode := mapBookingError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 5: Return success
	response.Success(c, http.StatusOK, detail)
}

// Cancel handles DELETE /bookings/:id
func (h *BookingHandler) Cancel(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse booking ID
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid booking ID")
		return
	}

	// Step 3: Call service
	if err := h.bookingService.Cancel(c.Request.Context(), userID, bookingID); err != nil {
		statusCode, errCode := mapBookingError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
	})
}

// mapBookingError maps booking domain errors to HTTP status codes
func mapBookingError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrBookingNotFound):
		return http.StatusNotFound, "BOOKING_NOT_FOUND"
	case errors.Is(err, model.ErrTalentNotFound):
		return http.StatusNotFound, "TALENT_NOT_FOUND"
	case errors.Is(err, model.ErrScheduleNotFound):
		return http.StatusNotFound, "SCHEDULE_NOT_FOUND"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, model.ErrInvalidSchedule):
		return http.StatusBadRequest, "INVALID_SCHEDULE"
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusBadRequest, "INVALID_TRANSITION"
	case errors.Is(err, model.ErrSelfBooking):
		return http.StatusConflict, "SELF_BOOKING"
	case errors.Is(err, model.ErrScheduleFull):
		return http.StatusConflict, "SCHEDULE_FULL"
	case errors.Is(err, model.ErrDuplicateBooking):
		return http.StatusConflict, "DUPLICATE_BOOKING"
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return http.StatusBadRequest, "VALIDATION_ERROR"
		}
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
