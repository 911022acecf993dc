package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ICAN-F-2025/readiness-service/internal/cache"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories/static"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	profile      repositories.ProfileRepository
	catalog      repositories.CatalogRepository
	checklist    repositories.ChecklistRepository
	announcement repositories.AnnouncementRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client

	// StaticCatalog serves the built-in curriculum instead of the
	// checklist_master_tasks table.
	StaticCatalog bool
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	// Initialize sub-repositories with caching
	repo.profile = NewProfilePostgreSQL(config.DB, config.RedisClient)
	repo.checklist = NewChecklistPostgreSQL(config.DB, config.RedisClient)
	repo.announcement = NewAnnouncementPostgreSQL(config.DB, config.RedisClient)

	if config.StaticCatalog {
		repo.catalog = static.NewStaticCatalog()
	} else {
		repo.catalog = NewCatalogPostgreSQL(config.DB, config.RedisClient)
	}

	return repo
}

// Profile returns the profile repository
func (r *PostgreSQLRepository) Profile() repositories.ProfileRepository {
	return r.profile
}

// Catalog returns the master task catalog repository
func (r *PostgreSQLRepository) Catalog() repositories.CatalogRepository {
	return r.catalog
}

// Checklist returns the checklist item repository
func (r *PostgreSQLRepository) Checklist() repositories.ChecklistRepository {
	return r.checklist
}

// Announcement returns the announcement repository
func (r *PostgreSQLRepository) Announcement() repositories.AnnouncementRepository {
	return r.announcement
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create a new repository instance with the transaction
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		// Initialize sub-repositories with transaction
		txRepo.profile = NewProfilePostgreSQL(tx, r.redisClient)
		txRepo.checklist = NewChecklistPostgreSQL(tx, r.redisClient)
		txRepo.announcement = NewAnnouncementPostgreSQL(tx, r.redisClient)

		// The static catalog has no transactional state
		if _, ok := r.catalog.(*static.StaticCatalog); ok {
			txRepo.catalog = r.catalog
		} else {
			txRepo.catalog = NewCatalogPostgreSQL(tx, r.redisClient)
		}

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	// Check database connection
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Check cache connection
	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	// Close database connection
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	// Close Redis connection
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	// Validate configuration
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	// Test database connection
	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	// Test Redis connection if provided
	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	// Initialize repository
	rm.repo = NewPostgreSQLRepository(rm.config)

	// Checklist joins and stale-item cleanup always run against
	// checklist_master_tasks. In static mode the catalog is served from
	// memory, so the table is mirrored from the curriculum at startup.
	if rm.config.StaticCatalog {
		if err := seedStaticCurriculum(ctx, rm.config.DB); err != nil {
			return fmt.Errorf("failed to seed static curriculum: %w", err)
		}
	}

	return nil
}

// seedStaticCurriculum upserts the built-in curriculum into
// checklist_master_tasks keyed on task id. Curriculum ids are
// deterministic, so re-running on every startup is idempotent.
func seedStaticCurriculum(ctx context.Context, db *gorm.DB) error {
	tasks, err := static.NewStaticCatalog().ListTasks(ctx, nil, repositories.TaskFilters{})
	if err != nil {
		return err
	}

	rows := make([]models.MasterTask, len(tasks))
	for i, task := range tasks {
		rows[i] = *task
	}

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, 200).Error
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}

// CacheStats returns cache statistics for monitoring
func (r *PostgreSQLRepository) CacheStats(ctx context.Context) (map[string]interface{}, error) {
	if r.redisClient == nil {
		return map[string]interface{}{
			"cache_enabled": false,
		}, nil
	}

	stats := make(map[string]interface{})
	stats["cache_enabled"] = true

	// Get Redis info
	info, err := r.redisClient.Info(ctx, "memory", "stats").Result()
	if err != nil {
		return stats, fmt.Errorf("failed to get cache info: %w", err)
	}

	stats["redis_info"] = info

	// Get key counts by prefix
	prefixes := []string{"profile:", "catalog:", "announce:", "exists:", "fast:"}
	for _, prefix := range prefixes {
		keys, err := r.redisClient.Keys(ctx, prefix+"*").Result()
		if err == nil {
			stats[prefix+"count"] = len(keys)
		}
	}

	return stats, nil
}
