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

const spreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CatalogHandler struct {
	BaseHandler
	catalogService      services.CatalogService
	importExportService services.ImportExportService
	validator           *validator.Validator
}

func NewCatalogHandler(
	catalogService services.CatalogService,
	importExportService services.ImportExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:         NewBaseHandler(logger),
		catalogService:      catalogService,
		importExportService: importExportService,
		validator:           validator,
	}
}

// ListTasks returns catalog tasks matching the query filters
func (h *CatalogHandler) ListTasks(c *gin.Context) {
	filters := h.parseTaskFilters(c)

	tasks, err := h.catalogService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateTask adds a task to the catalog
func (h *CatalogHandler) CreateTask(c *gin.Context) {
	var req services.CreateTaskRequest
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

	h.LogRequest(c, "Creating catalog task", "user_id", userID)

	task, err := h.catalogService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask edits a catalog task
func (h *CatalogHandler) UpdateTask(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateTaskRequest
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

	h.LogRequest(c, "Updating catalog task", "task_id", id, "user_id", userID)

	task, err := h.catalogService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a catalog task
func (h *CatalogHandler) DeleteTask(c *gin.Context) {
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

	h.LogRequest(c, "Deleting catalog task", "task_id", id, "user_id", userID)

	if err := h.catalogService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Task deleted",
	})
}

// ImportTasks bulk-loads catalog tasks from an uploaded spreadsheet
func (h *CatalogHandler) ImportTasks(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing spreadsheet upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing catalog tasks", "user_id", userID)

	result, err := h.importExportService.ImportTasks(c.Request.Context(), file, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportTasks downloads the filtered catalog as a spreadsheet
func (h *CatalogHandler) ExportTasks(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	filters := h.parseTaskFilters(c)

	h.LogRequest(c, "Exporting catalog tasks", "user_id", userID)

	data, err := h.importExportService.ExportTasks(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="checklist-tasks.xlsx"`)
	c.Data(http.StatusOK, spreadsheetContentType, data)
}

func (h *CatalogHandler) parseTaskFilters(c *gin.Context) repositories.TaskFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 100)

	filters := repositories.TaskFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if grade := strings.TrimSpace(c.Query("grade")); grade != "" {
		gradeLevel := models.GradeLevel(grade)
		filters.Grade = &gradeLevel
	}
	if track := strings.TrimSpace(c.Query("track")); track != "" {
		taskTrack := models.TaskTrack(strings.ToLower(track))
		filters.Track = &taskTrack
	}
	if month := strings.TrimSpace(c.Query("month")); month != "" {
		filters.Month = &month
	}
	if plan := strings.TrimSpace(c.Query("plan")); plan != "" {
		collegePlan := models.CollegePlan(plan)
		filters.Plan = &collegePlan
	}

	return filters
}
