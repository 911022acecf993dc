package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ICAN-F-2025/readiness-service/internal/config"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/services"
	"github.com/ICAN-F-2025/readiness-service/internal/utils"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

type HandlerManager struct {
	profileHandler      *ProfileHandler
	checklistHandler    *ChecklistHandler
	announcementHandler *AnnouncementHandler
	catalogHandler      *CatalogHandler
	reminderHandler     *ReminderHandler
	authMiddleware      *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig)

	return &HandlerManager{
		profileHandler:      NewProfileHandler(serviceManager.Profile(), validator, logger),
		checklistHandler:    NewChecklistHandler(serviceManager.Checklist(), serviceManager.Provision(), validator, logger),
		announcementHandler: NewAnnouncementHandler(serviceManager.Announcement(), validator, logger),
		catalogHandler:      NewCatalogHandler(serviceManager.Catalog(), serviceManager.ImportExport(), validator, logger),
		reminderHandler:     NewReminderHandler(serviceManager.Reminder(), logger),
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Profile routes - every authenticated user manages their own
		profiles := v1.Group("/profiles")
		{
			profiles.POST("", hm.profileHandler.UpsertProfile)
			profiles.GET("/me", hm.profileHandler.GetMyProfile)
			profiles.PUT("/me", hm.profileHandler.UpdateMyProfile)
			profiles.PUT("/me/preferences", hm.profileHandler.UpdateMyPreferences)
			// Push token registration reuses the preferences payload.
			profiles.PUT("/me/push-token", hm.profileHandler.UpdateMyPreferences)

			// Roster view - Counselors and Admins only
			profiles.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleCounselor, models.RoleAdmin), hm.profileHandler.ListProfiles)
		}

		// Checklist routes
		checklist := v1.Group("/checklist")
		{
			checklist.GET("", hm.checklistHandler.GetChecklist)
			checklist.POST("/toggle", hm.checklistHandler.ToggleTask)
			checklist.POST("/provision", hm.checklistHandler.ProvisionChecklist)
			checklist.DELETE("/session", hm.checklistHandler.EndSession)
		}

		// Announcement routes
		announcements := v1.Group("/announcements")
		{
			announcements.GET("", hm.announcementHandler.ListAnnouncements)
			announcements.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleCounselor, models.RoleAdmin), hm.announcementHandler.CreateAnnouncement)
			announcements.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleCounselor, models.RoleAdmin), hm.announcementHandler.DeleteAnnouncement)
		}

		// Catalog routes - reads for Counselors and Admins, writes for Admins only
		catalog := v1.Group("/catalog/tasks")
		{
			catalog.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleCounselor, models.RoleAdmin), hm.catalogHandler.ListTasks)
			catalog.GET("/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.ExportTasks)
			catalog.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.CreateTask)
			catalog.POST("/import", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.ImportTasks)
			catalog.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.UpdateTask)
			catalog.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.DeleteTask)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/reminders/run", hm.reminderHandler.RunReminders)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "readiness-service",
		})
	})
}
