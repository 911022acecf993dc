package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ICAN-F-2025/readiness-service/internal/services"
	"github.com/ICAN-F-2025/readiness-service/internal/utils"
)

type ReminderHandler struct {
	BaseHandler
	reminderService services.ReminderService
}

func NewReminderHandler(reminderService services.ReminderService, logger utils.Logger) *ReminderHandler {
	return &ReminderHandler{
		BaseHandler:     NewBaseHandler(logger),
		reminderService: reminderService,
	}
}

// RunReminders triggers one reminder sweep outside the scheduled ticker
func (h *ReminderHandler) RunReminders(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Running reminder sweep", "user_id", userID)

	result, err := h.reminderService.Run(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
