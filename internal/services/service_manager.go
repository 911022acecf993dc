package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/events"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Logging configuration
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Service-specific configurations
	Profile      ServiceConfig
	Checklist    ServiceConfig
	Announcement ServiceConfig
	Catalog      ServiceConfig
	Reminder     ServiceConfig

	// Global settings
	DefaultTimeout time.Duration
	MaxRetries     int
}

type ServiceConfig struct {
	Enabled      bool
	CacheEnabled bool
	CacheTTL     time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	config         ServiceManagerConfig

	// Service instances
	profileService      ProfileService
	provisionService    ProvisionService
	checklistService    ChecklistService
	announcementService AnnouncementService
	catalogService      CatalogService
	importExportService ImportExportService
	reminderService     ReminderService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		config:         config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,

		Profile: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
		},
		Checklist: ServiceConfig{
			Enabled:      true,
			CacheEnabled: false,
			CacheTTL:     0,
		},
		Announcement: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
		},
		Catalog: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     30 * time.Minute,
		},
		Reminder: ServiceConfig{
			Enabled:      true,
			CacheEnabled: false,
			CacheTTL:     0,
		},

		DefaultTimeout: 30 * time.Second,
		MaxRetries:     3,
	}

	return NewServiceManager(db, repo, logger, validator, eventPublisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.initializeServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices(ctx context.Context) error {
	// Provisioning goes first: the profile service re-provisions after
	// every grade or plan change.
	sm.provisionService = NewProvisionService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
	sm.logger.Info("Provision service initialized")

	if sm.config.Profile.Enabled {
		sm.profileService = NewProfileService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher, sm.provisionService)
		sm.logger.Info("Profile service initialized")
	}

	if sm.config.Checklist.Enabled {
		sm.checklistService = NewChecklistService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
		sm.logger.Info("Checklist service initialized")
	}

	if sm.config.Announcement.Enabled {
		sm.announcementService = NewAnnouncementService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
		sm.logger.Info("Announcement service initialized")
	}

	if sm.config.Catalog.Enabled {
		sm.catalogService = NewCatalogService(sm.repo, sm.db, sm.logger, sm.validator)
		sm.importExportService = NewImportExportService(sm.repo, sm.db, sm.logger, sm.validator)
		sm.logger.Info("Catalog services initialized")
	}

	if sm.config.Reminder.Enabled {
		sm.reminderService = NewReminderService(sm.repo, sm.db, sm.logger, sm.eventPublisher)
		sm.logger.Info("Reminder service initialized")
	}

	return nil
}

// Service getters
func (sm *serviceManager) Profile() ProfileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Profile.Enabled && sm.profileService != nil {
		return sm.profileService
	}

	panic("profile service not enabled or not initialized")
}

func (sm *serviceManager) Provision() ProvisionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.provisionService != nil {
		return sm.provisionService
	}

	panic("provision service not initialized")
}

func (sm *serviceManager) Checklist() ChecklistService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Checklist.Enabled && sm.checklistService != nil {
		return sm.checklistService
	}

	panic("checklist service not enabled or not initialized")
}

func (sm *serviceManager) Announcement() AnnouncementService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Announcement.Enabled && sm.announcementService != nil {
		return sm.announcementService
	}

	panic("announcement service not enabled or not initialized")
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Catalog.Enabled && sm.catalogService != nil {
		return sm.catalogService
	}

	panic("catalog service not enabled or not initialized")
}

func (sm *serviceManager) ImportExport() ImportExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.importExportService != nil {
		return sm.importExportService
	}

	panic("import/export service not initialized")
}

func (sm *serviceManager) Reminder() ReminderService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Reminder.Enabled && sm.reminderService != nil {
		return sm.reminderService
	}

	panic("reminder service not enabled or not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")

	return nil
}
