package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"talenthub-backend/internal/domains/talent/model"
	"talenthub-backend/internal/domains/talent/service"
	"talenthub-backend/internal/shared/middleware"
	"talenthub-backend/internal/shared/response"
)

const maxTalentImageSize = 5 << 20 // 5 MB

// =====================================================
// TALENT HANDLER
// =====================================================

type TalentHandler struct {
	talentService service.TalentService
}

func NewTalentHandler(talentService service.TalentService) *TalentHandler {
	return &TalentHandler{talentService: talentService}
}

// ========================================
// PUBLIC CATALOG ENDPOINTS
// ========================================

// List handles GET /talents with optional filters
func (h *TalentHandler) List(c *gin.Context) {
	// Step 1: Bind query parameters
	var req model.ListTalentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 2: Call service
	talents, err := h.talentService.List(c.Request.Context(), req)
	if err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 3: Return success
	response.SuccessWithMeta(c, http.StatusOK, talents, &response.Meta{Count: len(talents)})
}

// Get handles GET /talents/:id
func (h *TalentHandler) Get(c *gin.Context) {
	// Step 1: Parse talent ID
	talentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid talent ID")
		return
	}

	// Step 2: Call service
	detail, err := h.talentService.Get(c.Request.Context(), talentID)
	if err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 3: Return success
	response.Success(c, http.StatusOK, detail)
}

// ListSchedules handles GET /talents/:id/schedules
func (h *TalentHandler) ListSchedules(c *gin.Context) {
	// Step 1: Parse talent ID
	talentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid talent ID")
		return
	}

	// Step 2: Call service
	schedules, err := h.talentService.ListSchedules(c.Request.Context(), talentID)
	if err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 3: Return success
	response.SuccessWithMeta(c, http.StatusOK, schedules, &response.Meta{Count: len(schedules)})
}

// ========================================
// OWNER ENDPOINTS
// ========================================

// Create handles POST /talents
func (h *TalentHandler) Create(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Bind request body
	var req model.CreateTalentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 3: Call service (validation happens inside)
	detail, err := h.talentService.Create(c.Request.Context(), userID, req)
	if err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusCreated, detail)
}

// MyTalents handles GET /talents/my
func (h *TalentHandler) MyTalents(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	talents, err := h.talentService.MyTalents(c.Request.Context(), userID)
	if err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, talents, &response.Meta{Count: len(talents)})
}

// Update handles PUT /talents/:id
func (h *TalentHandler) Update(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse talent ID
	talentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid talent ID")
		return
	}

	// Step 3: Bind request body
	var req model.UpdateTalentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 4: Call service
	talent, err := h.talentService.Update(c.Request.Context(), userID, talentID, req)
	if err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 5: Return success
	response.Success(c, http.StatusOK, talent)
}

// Delete handles DELETE /talents/:id
func (h *TalentHandler) Delete(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse talent ID
	talentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid talent ID")
		return
	}

	// Step 3: Call service
	if err := h.talentService.Delete(c.Request.Context(), userID, talentID); err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusOK, gin.H{
		"message": "Talent deleted successfully",
	})
}

// UploadImage handles POST /talents/:id/image (multipart)
func (h *TalentHandler) UploadImage(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse talent ID
	talentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid talent ID")
		return
	}

	// Step 3: Read multipart file
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if fileHeader.Size > maxTalentImageSize {
		response.BadRequest(c, "image exceeds 5MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "failed to read image")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		response.BadRequest(c, "image must be jpeg, png or webp")
		return
	}

	// Step 4: Call service
	talent, err := h.talentService.UploadImage(c.Request.Context(), userID, talentID, file, fileHeader.Size, contentType)
	if err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 5: Return success
	response.Success(c, http.StatusOK, talent)
}

// AddSchedule handles POST /talents/:id/schedules
func (h *TalentHandler) AddSchedule(c *gin.Context) {
	// Step 1: Get user ID from JWT
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Parse talent ID
	talentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid talent ID")
		return
	}

	// Step 3: Bind request body
	var req model.AddScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 4: Call service
	schedule, err := h.talentService.AddSchedule(c.Request.Context(), userID, talentID, req)
	if err != nil {
		statusCode, errCode := mapTalentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 5: Return success
	response.Success(c, http.StatusCreated, schedule)
}

// mapTalentError maps talent domain errors to HTTP status codes
func mapTalentError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrTalentNotFound):
		return http.StatusNotFound, "TALENT_NOT_FOUND"
	case errors.Is(err, model.ErrScheduleNotFound):
		return http.StatusNotFound, "SCHEDULE_NOT_FOUND"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, model.ErrNoSchedules),
		errors.Is(err, model.ErrInvalidCategory),
		errors.Is(err, model.ErrLocationRequired),
		errors.Is(err, model.ErrPastDate),
		errors.Is(err, model.ErrInvalidTimeRange),
		errors.Is(err, model.ErrInvalidTime):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	default:
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return http.StatusBadRequest, "VALIDATION_ERROR"
		}
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
