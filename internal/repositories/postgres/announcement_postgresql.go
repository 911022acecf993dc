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

type AnnouncementPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAnnouncementPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AnnouncementRepository {
	return &AnnouncementPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (a *AnnouncementPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

// Create adds an announcement and invalidates the feed cache
func (a *AnnouncementPostgreSQL) Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error {
	if err := a.getDB(tx).WithContext(ctx).Create(announcement).Error; err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Announcement, "list:*")

	return nil
}

// GetByID retrieves a single announcement
func (a *AnnouncementPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	err := a.getDB(tx).WithContext(ctx).First(&announcement, id).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

// List retrieves announcements newest first with caching
func (a *AnnouncementPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AnnouncementFilters) ([]*models.Announcement, error) {
	cacheKey := a.listCacheKey(filters)
	var announcements []*models.Announcement

	err := a.cacheManager.Announcement.CacheOrExecute(ctx, cacheKey, &announcements, cache.AnnouncementCacheConfig.TTL, func() (interface{}, error) {
		var dbAnnouncements []*models.Announcement
		query := a.getDB(tx).WithContext(ctx).Model(&models.Announcement{})

		if filters.Category != nil {
			query = query.Where("category = ?", *filters.Category)
		}
		if filters.Since != nil {
			query = query.Where("created_at >= ?", *filters.Since)
		}

		query = query.Order("created_at DESC")
		if filters.Limit > 0 {
			query = query.Limit(filters.Limit)
		}
		if filters.Offset > 0 {
			query = query.Offset(filters.Offset)
		}

		if err := query.Find(&dbAnnouncements).Error; err != nil {
			return nil, fmt.Errorf("failed to list announcements: %w", err)
		}
		return dbAnnouncements, nil
	})

	if err != nil {
		return nil, err
	}

	return announcements, nil
}

// Delete removes an announcement and invalidates the feed cache
func (a *AnnouncementPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := a.getDB(tx).WithContext(ctx).Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete announcement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Announcement, "list:*")

	return nil
}

func (a *AnnouncementPostgreSQL) listCacheKey(filters repositories.AnnouncementFilters) string {
	category := "*"
	if filters.Category != nil {
		category = *filters.Category
	}
	since := int64(0)
	if filters.Since != nil {
		since = filters.Since.Unix()
	}
	return fmt.Sprintf("list:%s:%d:%d:%d", category, since, filters.Limit, filters.Offset)
}
