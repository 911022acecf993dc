package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/services"
	"github.com/ICAN-F-2025/readiness-service/internal/utils"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
	validator      *validator.Validator
}

func NewProfileHandler(
	profileService services.ProfileService,
	validator *validator.Validator,
	logger utils.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
		validator:      validator,
	}
}

// UpsertProfile creates or replaces the caller's profile and provisions
// the matching checklist
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	var req services.UpsertProfileRequest
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

	h.LogRequest(c, "Upserting profile", "user_id", userID)

	profile, err := h.profileService.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMyProfile returns the caller's profile
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile applies a partial edit to the caller's profile
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
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

	h.LogRequest(c, "Updating profile", "user_id", userID)

	profile, err := h.profileService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMyPreferences updates the caller's notification preferences and
// push token
func (h *ProfileHandler) UpdateMyPreferences(c *gin.Context) {
	var req services.UpdatePreferencesRequest
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

	profile, err := h.profileService.UpdatePreferences(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfiles lists profiles for counselor and admin dashboards
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	filters := h.parseProfileFilters(c)

	profiles, err := h.profileService.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) parseProfileFilters(c *gin.Context) repositories.ProfileFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)

	filters := repositories.ProfileFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if role := strings.TrimSpace(c.Query("role")); role != "" {
		userRole := models.UserRole(role)
		filters.Role = &userRole
	}
	if grade := strings.TrimSpace(c.Query("grade")); grade != "" {
		gradeLevel := models.GradeLevel(grade)
		filters.Grade = &gradeLevel
	}
	if school := strings.TrimSpace(c.Query("school_name")); school != "" {
		filters.SchoolName = &school
	}

	return filters
}
