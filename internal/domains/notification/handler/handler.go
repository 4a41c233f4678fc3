package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talenthub-backend/internal/domains/notification/model"
	"talenthub-backend/internal/domains/notification/service"
	"talenthub-backend/internal/shared/middleware"
	"talenthub-backend/internal/shared/response"
)

// =====================================================
// NOTIFICATION HANDLER
// =====================================================

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /notifications?unread_only=
func (h *NotificationHandler) List(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse filter
	unreadOnly := c.Query("unread_only") == "true"

	// Step 3: Call service
	result, err := h.notificationService.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		statusCode, errCode := mapNotificationError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success with counts in meta
	response.SuccessWithMeta(c, http.StatusOK, result.Notifications, &response.Meta{
		Count:       len(result.Notifications),
		UnreadCount: result.UnreadCount,
	})
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		statusCode, errCode := mapNotificationError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": count})
}

// MarkRead handles PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse notification ID
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid notification ID")
		return
	}

	// Step 3: Call service
	n, err := h.notificationService.MarkRead(c.Request.Context(), userID, notificationID)
	if err != nil {
		statusCode, errCode := mapNotificationError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusOK, n)
}

// MarkAllRead handles PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		statusCode, errCode := mapNotificationError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "All notifications marked as read",
	})
}

// Delete handles DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse notification ID
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid notification ID")
		return
	}

	// Step 3: Call service
	if err := h.notificationService.Delete(c.Request.Context(), userID, notificationID); err != nil {
		statusCode, errCode := mapNotificationError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusOK, gin.H{
		"message": "Notification deleted successfully",
	})
}

// mapNotificationError maps notification domain errors to HTTP status codes
func mapNotificationError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrNotificationNotFound):
		return http.StatusNotFound, "NOTIFICATION_NOT_FOUND"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
