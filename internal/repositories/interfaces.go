package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type TaskFilters struct {
	Grade    *models.GradeLevel  `json:"grade"`
	Track    *models.TaskTrack   `json:"track"`
	Month    *string             `json:"month"`
	Plan     *models.CollegePlan `json:"plan"`
	DueFrom  *time.Time          `json:"due_from"`
	DueTo    *time.Time          `json:"due_to"`
	ReNotify *bool               `json:"re_notify"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
}

type ProfileFilters struct {
	Role       *models.UserRole   `json:"role"`
	Grade      *models.GradeLevel `json:"grade"`
	SchoolName *string            `json:"school_name"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

type AnnouncementFilters struct {
	Category *string    `json:"category"`
	Since    *time.Time `json:"since"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// ChecklistCounts holds completion totals over a user's provisioned items.
type ChecklistCounts struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
}

// ===== PROFILE REPOSITORY =====

type ProfileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	UpdateProgress(ctx context.Context, tx *gorm.DB, id string, progress string) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	List(ctx context.Context, tx *gorm.DB, filters ProfileFilters) ([]*models.Profile, int64, error)

	// ListNotifiable returns profiles in the given grade that have a
	// push token registered. Used by the reminder sweep.
	ListNotifiable(ctx context.Context, tx *gorm.DB, grade models.GradeLevel) ([]*models.Profile, error)

	Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}

// ===== CATALOG REPOSITORY =====

// CatalogRepository serves the master task catalog. The postgres
// implementation backs it with checklist_master_tasks; the static
// implementation serves the built-in curriculum and rejects writes.
type CatalogRepository interface {
	ListTasks(ctx context.Context, tx *gorm.DB, filters TaskFilters) ([]*models.MasterTask, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MasterTask, error)

	Create(ctx context.Context, tx *gorm.DB, task *models.MasterTask) error
	Update(ctx context.Context, tx *gorm.DB, task *models.MasterTask) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	BulkCreate(ctx context.Context, tx *gorm.DB, tasks []*models.MasterTask) error
}

// ===== CHECKLIST REPOSITORY =====

type ChecklistRepository interface {
	GetByUserAndTask(ctx context.Context, tx *gorm.DB, userID string, taskID uint) (*models.ChecklistItem, error)
	ListTaskIDs(ctx context.Context, tx *gorm.DB, userID string) ([]uint, error)

	// ListForGrade returns the user's items joined with their master
	// tasks, restricted to the given grade and track. When plan is
	// non-nil only tasks eligible for that plan are returned.
	ListForGrade(ctx context.Context, tx *gorm.DB, userID string, grade models.GradeLevel, track models.TaskTrack, plan *models.CollegePlan) ([]*models.ChecklistItem, error)

	Insert(ctx context.Context, tx *gorm.DB, item *models.ChecklistItem) error
	BulkInsert(ctx context.Context, tx *gorm.DB, items []*models.ChecklistItem) error
	Upsert(ctx context.Context, tx *gorm.DB, item *models.ChecklistItem) error

	// DeleteMismatched removes the user's items whose master task does
	// not belong to the given grade and track, or, when plan is non-nil,
	// is not eligible for that plan. Returns rows removed.
	DeleteMismatched(ctx context.Context, tx *gorm.DB, userID string, grade models.GradeLevel, track models.TaskTrack, plan *models.CollegePlan) (int64, error)

	Counts(ctx context.Context, tx *gorm.DB, userID string) (*ChecklistCounts, error)
}

// ===== ANNOUNCEMENT REPOSITORY =====

type AnnouncementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error)
	List(ctx context.Context, tx *gorm.DB, filters AnnouncementFilters) ([]*models.Announcement, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}
