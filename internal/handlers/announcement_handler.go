package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/services"
	"github.com/ICAN-F-2025/readiness-service/internal/utils"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

type AnnouncementHandler struct {
	BaseHandler
	announcementService services.AnnouncementService
	validator           *validator.Validator
}

func NewAnnouncementHandler(
	announcementService services.AnnouncementService,
	validator *validator.Validator,
	logger utils.Logger,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		BaseHandler:         NewBaseHandler(logger),
		announcementService: announcementService,
		validator:           validator,
	}
}

// ListAnnouncements returns announcements, newest first
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	filters := h.parseAnnouncementFilters(c)

	announcements, err := h.announcementService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, announcements)
}

// CreateAnnouncement posts a new announcement
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req services.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Creating announcement", "user_id", userID)

	announcement, err := h.announcementService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// DeleteAnnouncement removes an announcement
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Deleting announcement", "announcement_id", id, "user_id", userID)

	if err := h.announcementService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Announcement deleted",
	})
}

func (h *AnnouncementHandler) parseAnnouncementFilters(c *gin.Context) repositories.AnnouncementFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)

	filters := repositories.AnnouncementFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filters.Category = &category
	}
	if sinceStr := strings.TrimSpace(c.Query("since")); sinceStr != "" {
		if since, err := time.Parse(time.RFC3339, sinceStr); err == nil {
			filters.Since = &since
		}
	}

	return filters
}
