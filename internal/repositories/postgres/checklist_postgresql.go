package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ICAN-F-2025/readiness-service/internal/cache"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
)

type ChecklistPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewChecklistPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ChecklistRepository {
	return &ChecklistPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (c *ChecklistPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// GetByUserAndTask retrieves a single checklist item
func (c *ChecklistPostgreSQL) GetByUserAndTask(ctx context.Context, tx *gorm.DB, userID string, taskID uint) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	err := c.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListTaskIDs returns the master task ids already provisioned for a user
func (c *ChecklistPostgreSQL) ListTaskIDs(ctx context.Context, tx *gorm.DB, userID string) ([]uint, error) {
	var ids []uint
	err := c.getDB(tx).WithContext(ctx).
		Model(&models.ChecklistItem{}).
		Where("user_id = ?", userID).
		Pluck("task_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list task ids: %w", err)
	}
	return ids, nil
}

// ListForGrade joins a user's items with their master tasks for the
// given grade and track. Items are not cached: completion state
// changes on every toggle.
func (c *ChecklistPostgreSQL) ListForGrade(ctx context.Context, tx *gorm.DB, userID string, grade models.GradeLevel, track models.TaskTrack, plan *models.CollegePlan) ([]*models.ChecklistItem, error) {
	var items []*models.ChecklistItem

	query := c.getDB(tx).WithContext(ctx).
		Model(&models.ChecklistItem{}).
		Joins("JOIN checklist_master_tasks mt ON mt.id = checklist_items.task_id AND mt.deleted_at IS NULL").
		Where("checklist_items.user_id = ?", userID).
		Where("mt.grade = ? AND mt.track = ?", grade, track)

	if plan != nil {
		if col := PlanColumn(*plan); col != "" {
			query = query.Where("mt."+col+" = ?", true)
		}
	}

	err := query.
		Preload("Task").
		Order("checklist_items.task_id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}

	return items, nil
}

// Insert adds a single checklist item
func (c *ChecklistPostgreSQL) Insert(ctx context.Context, tx *gorm.DB, item *models.ChecklistItem) error {
	if err := c.getDB(tx).WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to insert checklist item: %w", err)
	}
	return nil
}

// BulkInsert adds many checklist items in batches
func (c *ChecklistPostgreSQL) BulkInsert(ctx context.Context, tx *gorm.DB, items []*models.ChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := c.getDB(tx).WithContext(ctx).CreateInBatches(items, 100).Error; err != nil {
		return fmt.Errorf("failed to bulk insert checklist items: %w", err)
	}
	return nil
}

// Upsert inserts or updates completion state keyed on (user_id, task_id)
func (c *ChecklistPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, item *models.ChecklistItem) error {
	err := c.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed", "updated_at"}),
		}).
		Create(item).Error
	if err != nil {
		return fmt.Errorf("failed to upsert checklist item: %w", err)
	}
	return nil
}

// DeleteMismatched removes items whose master task does not belong to
// the user's current grade, track and plan, including items pointing at
// soft-deleted tasks.
func (c *ChecklistPostgreSQL) DeleteMismatched(ctx context.Context, tx *gorm.DB, userID string, grade models.GradeLevel, track models.TaskTrack, plan *models.CollegePlan) (int64, error) {
	keep := c.getDB(tx).
		Model(&models.MasterTask{}).
		Select("id").
		Where("grade = ? AND track = ?", grade, track)

	if plan != nil {
		if col := PlanColumn(*plan); col != "" {
			keep = keep.Where(col+" = ?", true)
		}
	}

	result := c.getDB(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Where("task_id NOT IN (?)", keep).
		Delete(&models.ChecklistItem{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete mismatched checklist items: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Counts returns total and completed counts over a user's items
func (c *ChecklistPostgreSQL) Counts(ctx context.Context, tx *gorm.DB, userID string) (*repositories.ChecklistCounts, error) {
	counts := &repositories.ChecklistCounts{}

	err := c.getDB(tx).WithContext(ctx).
		Model(&models.ChecklistItem{}).
		Where("user_id = ?", userID).
		Count(&counts.Total).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count checklist items: %w", err)
	}

	err = c.getDB(tx).WithContext(ctx).
		Model(&models.ChecklistItem{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&counts.Completed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count completed items: %w", err)
	}

	return counts, nil
}
