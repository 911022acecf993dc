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

type ProfilePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (p *ProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

// Create stores a new profile and invalidates list caches
func (p *ProfilePostgreSQL) Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	if err := p.getDB(tx).WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Profile, "list:*")

	return nil
}

// GetByID retrieves a profile by its identity reference with caching
func (p *ProfilePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var profile models.Profile

	err := p.cacheManager.Profile.CacheOrExecute(ctx, cacheKey, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.Profile
		err := p.getDB(tx).WithContext(ctx).
			Where("id = ?", id).
			First(&dbProfile).Error
		if err != nil {
			return nil, err
		}
		return &dbProfile, nil
	})

	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// GetByEmail retrieves a profile by email, bypassing the cache
func (p *ProfilePostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error) {
	var profile models.Profile
	err := p.getDB(tx).WithContext(ctx).
		Where("email = ?", email).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update saves the full profile and invalidates its cache entry
func (p *ProfilePostgreSQL) Update(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	if err := p.getDB(tx).WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	cache.SafeDelete(ctx, p.cacheManager.Profile, fmt.Sprintf("id:%s", profile.ID))
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Profile, "list:*")

	return nil
}

// UpdateProgress updates only the denormalized progress string
func (p *ProfilePostgreSQL) UpdateProgress(ctx context.Context, tx *gorm.DB, id string, progress string) error {
	result := p.getDB(tx).WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("progress", progress)
	if result.Error != nil {
		return fmt.Errorf("failed to update progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.SafeDelete(ctx, p.cacheManager.Profile, fmt.Sprintf("id:%s", id))

	return nil
}

// Delete soft-deletes a profile
func (p *ProfilePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	result := p.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Profile{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.SafeDelete(ctx, p.cacheManager.Profile, fmt.Sprintf("id:%s", id))
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Profile, "list:*")

	return nil
}

// List retrieves profiles matching the filters with a total count
func (p *ProfilePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	var profiles []*models.Profile
	var total int64

	query := p.getDB(tx).WithContext(ctx).Model(&models.Profile{})
	query = p.helpers.ApplyProfileFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query = p.helpers.ApplyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset)
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, total, nil
}

// ListNotifiable returns profiles in a grade that registered a push token
func (p *ProfilePostgreSQL) ListNotifiable(ctx context.Context, tx *gorm.DB, grade models.GradeLevel) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := p.getDB(tx).WithContext(ctx).
		Where("grade = ?", grade).
		Where("expo_push_token IS NOT NULL AND expo_push_token <> ''").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifiable profiles: %w", err)
	}
	return profiles, nil
}

// Exists checks whether a profile row exists for the given id
func (p *ProfilePostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	var count int64
	err := p.getDB(tx).WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check profile existence: %w", err)
	}
	return count > 0, nil
}
