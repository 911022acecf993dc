package services

import (
	"context"
	"io"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type UpsertProfileRequest = validator.ProfileUpsertRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest
type UpdatePreferencesRequest = validator.PreferencesUpdateRequest
type ToggleTaskRequest = validator.TaskToggleRequest
type CreateAnnouncementRequest = validator.AnnouncementCreateRequest
type CreateTaskRequest = validator.TaskCreateRequest
type UpdateTaskRequest = validator.TaskUpdateRequest

type ProfileResponse struct {
	*models.Profile
	Preferences *models.NotificationPrefs `json:"preferences,omitempty"`
}

type ProfileListResponse struct {
	Profiles []*ProfileResponse `json:"profiles"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
}

// ProvisionResult summarizes one provisioning pass.
type ProvisionResult struct {
	Grade     models.GradeLevel `json:"grade"`
	Inserted  int               `json:"inserted"`
	Removed   int64             `json:"removed"`
	Completed int64             `json:"completed"`
	Total     int64             `json:"total"`
	Progress  string            `json:"progress"`
}

type ChecklistResponse struct {
	*models.ChecklistView
	Progress string  `json:"progress"`
	Ratio    float64 `json:"ratio"`
}

// ToggleResult reports the persisted state after a toggle, plus the
// month-completion celebration when this flip finished a month.
type ToggleResult struct {
	TaskID         uint    `json:"task_id"`
	Done           bool    `json:"done"`
	Completed      int     `json:"completed"`
	Total          int     `json:"total"`
	Progress       string  `json:"progress"`
	CompletedMonth *string `json:"completed_month,omitempty"`
}

type AnnouncementListResponse struct {
	Announcements []*models.Announcement `json:"announcements"`
}

type TaskListResponse struct {
	Tasks []*models.MasterTask `json:"tasks"`
}

// ImportResult summarizes a catalog spreadsheet import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ReminderRunResult summarizes one reminder sweep.
type ReminderRunResult struct {
	DueSoonTasks  int `json:"due_soon_tasks"`
	OverdueTasks  int `json:"overdue_tasks"`
	Notifications int `json:"notifications"`
}

// PushNotification is the payload published for each reminder.
type PushNotification struct {
	To    string `json:"to"`
	Sound string `json:"sound"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ===== SERVICE INTERFACES =====

type ProfileService interface {
	Upsert(ctx context.Context, userID string, req *UpsertProfileRequest) (*ProfileResponse, error)
	Get(ctx context.Context, userID string) (*ProfileResponse, error)
	Update(ctx context.Context, userID string, req *UpdateProfileRequest) (*ProfileResponse, error)
	UpdatePreferences(ctx context.Context, userID string, req *UpdatePreferencesRequest) (*ProfileResponse, error)

	// List is restricted to counselors and admins.
	List(ctx context.Context, filters repositories.ProfileFilters, requesterID string) (*ProfileListResponse, error)
}

type ProvisionService interface {
	// Provision syncs the user's checklist items with the catalog rows
	// for their current grade, track and plan. Safe to call repeatedly.
	Provision(ctx context.Context, userID string) (*ProvisionResult, error)
}

type ChecklistService interface {
	LoadChecklist(ctx context.Context, userID string) (*ChecklistResponse, error)
	ToggleTask(ctx context.Context, userID string, req *ToggleTaskRequest) (*ToggleResult, error)

	// EndSession drops the per-user view state, re-arming month
	// celebrations for the next session.
	EndSession(userID string)
}

type AnnouncementService interface {
	List(ctx context.Context, filters repositories.AnnouncementFilters) (*AnnouncementListResponse, error)
	Create(ctx context.Context, req *CreateAnnouncementRequest, requesterID string) (*models.Announcement, error)
	Delete(ctx context.Context, id uint, requesterID string) error
}

type CatalogService interface {
	List(ctx context.Context, filters repositories.TaskFilters) (*TaskListResponse, error)
	Create(ctx context.Context, req *CreateTaskRequest, requesterID string) (*models.MasterTask, error)
	Update(ctx context.Context, id uint, req *UpdateTaskRequest, requesterID string) (*models.MasterTask, error)
	Delete(ctx context.Context, id uint, requesterID string) error
}

type ImportExportService interface {
	ImportTasks(ctx context.Context, r io.Reader, requesterID string) (*ImportResult, error)
	ExportTasks(ctx context.Context, filters repositories.TaskFilters, requesterID string) ([]byte, error)
}

type ReminderService interface {
	// Run performs one reminder sweep: due-soon notifications for tasks
	// due today or tomorrow, overdue re-notifications for flagged tasks
	// due two days ago.
	Run(ctx context.Context) (*ReminderRunResult, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Profile() ProfileService
	Provision() ProvisionService
	Checklist() ChecklistService
	Announcement() AnnouncementService
	Catalog() CatalogService
	ImportExport() ImportExportService
	Reminder() ReminderService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
