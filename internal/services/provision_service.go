package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/events"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

type provisionService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher

	// Provisioning is serialized per user: a rapid double-submit of a
	// profile edit must not interleave cleanup and insert phases.
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

func NewProvisionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ProvisionService {
	return &provisionService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		locks:          make(map[string]*sync.Mutex),
	}
}

func (s *provisionService) userLock(userID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Provision syncs checklist items with the catalog for the user's
// current grade, track and plan. The cleanup of stale-grade items and
// the insert of missing items run in one transaction, cleanup first.
func (s *provisionService) Provision(ctx context.Context, userID string) (*ProvisionResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	track, ok := trackForRole(profile.Role)
	if !ok {
		// Roles without a checklist provision nothing.
		s.logger.Info("Skipping provisioning for role without checklist",
			"user_id", userID, "role", profile.Role)
		return &ProvisionResult{Grade: profile.Grade, Progress: "0/0"}, nil
	}

	result := &ProvisionResult{Grade: profile.Grade}
	plan := planFilterForRole(profile.Role, profile.Plan)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Items from a previous grade, track or plan never carry forward.
		removed, err := txRepo.Checklist().DeleteMismatched(ctx, nil, userID, profile.Grade, track, plan)
		if err != nil {
			return fmt.Errorf("failed to clean up stale items: %w", err)
		}
		result.Removed = removed

		tasks, err := txRepo.Catalog().ListTasks(ctx, nil, repositories.TaskFilters{
			Grade: &profile.Grade,
			Track: &track,
			Plan:  plan,
		})
		if err != nil {
			return fmt.Errorf("failed to query catalog: %w", err)
		}

		existingIDs, err := txRepo.Checklist().ListTaskIDs(ctx, nil, userID)
		if err != nil {
			return fmt.Errorf("failed to list existing items: %w", err)
		}
		existing := make(map[uint]struct{}, len(existingIDs))
		for _, id := range existingIDs {
			existing[id] = struct{}{}
		}

		var missing []*models.ChecklistItem
		for _, task := range tasks {
			if _, ok := existing[task.ID]; ok {
				continue
			}
			missing = append(missing, &models.ChecklistItem{
				UserID:      userID,
				TaskID:      task.ID,
				IsCompleted: false,
			})
		}

		if err := txRepo.Checklist().BulkInsert(ctx, nil, missing); err != nil {
			return fmt.Errorf("failed to insert items: %w", err)
		}
		result.Inserted = len(missing)

		counts, err := txRepo.Checklist().Counts(ctx, nil, userID)
		if err != nil {
			return fmt.Errorf("failed to count items: %w", err)
		}
		result.Completed = counts.Completed
		result.Total = counts.Total
		result.Progress = fmt.Sprintf("%d/%d", counts.Completed, counts.Total)

		if err := txRepo.Profile().UpdateProgress(ctx, nil, userID, result.Progress); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Checklist provisioned",
		"user_id", userID,
		"grade", profile.Grade,
		"inserted", result.Inserted,
		"removed", result.Removed,
		"progress", result.Progress)

	if s.eventPublisher != nil {
		event := events.NewEvent(events.EventChecklistProvisioned, map[string]interface{}{
			"user_id":  userID,
			"grade":    profile.Grade,
			"inserted": result.Inserted,
			"removed":  result.Removed,
			"progress": result.Progress,
		})
		if err := s.eventPublisher.Publish(ctx, events.TopicChecklist, event); err != nil {
			s.logger.Warn("Failed to publish provisioned event", "user_id", userID, "error", err)
		}
	}

	return result, nil
}
