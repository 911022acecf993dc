package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ICAN-F-2025/readiness-service/internal/services"
	"github.com/ICAN-F-2025/readiness-service/internal/utils"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

type ChecklistHandler struct {
	BaseHandler
	checklistService services.ChecklistService
	provisionService services.ProvisionService
	validator        *validator.Validator
}

func NewChecklistHandler(
	checklistService services.ChecklistService,
	provisionService services.ProvisionService,
	validator *validator.Validator,
	logger utils.Logger,
) *ChecklistHandler {
	return &ChecklistHandler{
		BaseHandler:      NewBaseHandler(logger),
		checklistService: checklistService,
		provisionService: provisionService,
		validator:        validator,
	}
}

// GetChecklist returns the caller's checklist grouped by school-year month
func (h *ChecklistHandler) GetChecklist(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	checklist, err := h.checklistService.LoadChecklist(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, checklist)
}

// ToggleTask flips one checklist item and reports the persisted state
func (h *ChecklistHandler) ToggleTask(c *gin.Context) {
	var req services.ToggleTaskRequest
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

	h.LogRequest(c, "Toggling checklist task", "user_id", userID, "task_id", req.TaskID)

	result, err := h.checklistService.ToggleTask(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ProvisionChecklist re-syncs the caller's checklist with the catalog
func (h *ChecklistHandler) ProvisionChecklist(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Provisioning checklist", "user_id", userID)

	result, err := h.provisionService.Provision(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// EndSession drops the caller's checklist view state
func (h *ChecklistHandler) EndSession(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.checklistService.EndSession(userID)

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session ended",
	})
}
