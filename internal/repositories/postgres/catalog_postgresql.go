package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/cache"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
)

type CatalogPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewCatalogPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CatalogRepository {
	return &CatalogPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (c *CatalogPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// ListTasks retrieves master tasks matching the filters with caching.
// The (grade, track, plan) combination is the hot path: provisioning
// runs it on every login and grade change.
func (c *CatalogPostgreSQL) ListTasks(ctx context.Context, tx *gorm.DB, filters repositories.TaskFilters) ([]*models.MasterTask, error) {
	cacheKey := c.listCacheKey(filters)
	var tasks []*models.MasterTask

	err := c.cacheManager.Catalog.CacheOrExecute(ctx, cacheKey, &tasks, cache.CatalogCacheConfig.TTL, func() (interface{}, error) {
		var dbTasks []*models.MasterTask
		query := c.getDB(tx).WithContext(ctx).Model(&models.MasterTask{})
		query = c.helpers.ApplyTaskFilters(query, filters)
		query = query.Order("position ASC, id ASC")
		if filters.Limit > 0 {
			query = query.Limit(filters.Limit)
		}
		if filters.Offset > 0 {
			query = query.Offset(filters.Offset)
		}

		if err := query.Find(&dbTasks).Error; err != nil {
			return nil, fmt.Errorf("failed to list master tasks: %w", err)
		}
		return dbTasks, nil
	})

	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetByID retrieves a single master task
func (c *CatalogPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MasterTask, error) {
	var task models.MasterTask
	err := c.getDB(tx).WithContext(ctx).First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create adds a master task and invalidates catalog caches
func (c *CatalogPostgreSQL) Create(ctx context.Context, tx *gorm.DB, task *models.MasterTask) error {
	if err := c.getDB(tx).WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create master task: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "tasks:*")

	return nil
}

// Update saves a master task and invalidates catalog caches
func (c *CatalogPostgreSQL) Update(ctx context.Context, tx *gorm.DB, task *models.MasterTask) error {
	if err := c.getDB(tx).WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to update master task: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "tasks:*")

	return nil
}

// Delete soft-deletes a master task
func (c *CatalogPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := c.getDB(tx).WithContext(ctx).Delete(&models.MasterTask{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete master task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "tasks:*")

	return nil
}

// BulkCreate inserts many master tasks in batches. Used by the
// spreadsheet import.
func (c *CatalogPostgreSQL) BulkCreate(ctx context.Context, tx *gorm.DB, tasks []*models.MasterTask) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := c.getDB(tx).WithContext(ctx).CreateInBatches(tasks, 100).Error; err != nil {
		return fmt.Errorf("failed to bulk create master tasks: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Catalog, "tasks:*")

	return nil
}

func (c *CatalogPostgreSQL) listCacheKey(filters repositories.TaskFilters) string {
	grade, track, month, plan := "*", "*", "*", "*"
	if filters.Grade != nil {
		grade = string(*filters.Grade)
	}
	if filters.Track != nil {
		track = string(*filters.Track)
	}
	if filters.Month != nil {
		month = *filters.Month
	}
	if filters.Plan != nil {
		plan = string(*filters.Plan)
	}
	return fmt.Sprintf("tasks:%s:%s:%s:%s:%d:%d", grade, track, month, plan, filters.Limit, filters.Offset)
}
