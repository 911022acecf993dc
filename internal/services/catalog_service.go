package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *catalogService) List(ctx context.Context, filters repositories.TaskFilters) (*TaskListResponse, error) {
	tasks, err := s.repo.Catalog().ListTasks(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog tasks: %w", err)
	}

	return &TaskListResponse{Tasks: tasks}, nil
}

func (s *catalogService) Create(ctx context.Context, req *CreateTaskRequest, requesterID string) (*models.MasterTask, error) {
	if errs := s.validator.GetBusinessValidator().ValidateTaskCreate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	if err := s.requireAdmin(ctx, requesterID, "create"); err != nil {
		return nil, err
	}

	task := &models.MasterTask{
		Grade:          models.GradeLevel(req.Grade),
		Track:          models.TrackStudent,
		Month:          req.Month,
		Text:           req.Text,
		FourYear:       true,
		TwoYear:        true,
		Apprenticeship: true,
		Undecided:      true,
		DueDate:        req.DueDate,
	}
	if req.Track != "" {
		task.Track = models.TaskTrack(req.Track)
	}
	if req.FourYear != nil {
		task.FourYear = *req.FourYear
	}
	if req.TwoYear != nil {
		task.TwoYear = *req.TwoYear
	}
	if req.Apprenticeship != nil {
		task.Apprenticeship = *req.Apprenticeship
	}
	if req.Undecided != nil {
		task.Undecided = *req.Undecided
	}
	if req.ReNotify != nil {
		task.ReNotify = *req.ReNotify
	}
	if req.Position != nil {
		task.Position = *req.Position
	}

	if err := s.repo.Catalog().Create(ctx, nil, task); err != nil {
		if errors.Is(err, repositories.ErrReadOnlyCatalog) {
			return nil, ErrCatalogReadOnly
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Catalog task created",
		"task_id", task.ID, "grade", task.Grade, "track", task.Track, "month", task.Month, "requester_id", requesterID)

	return task, nil
}

func (s *catalogService) Update(ctx context.Context, id uint, req *UpdateTaskRequest, requesterID string) (*models.MasterTask, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	if err := s.requireAdmin(ctx, requesterID, "update"); err != nil {
		return nil, err
	}

	task, err := s.repo.Catalog().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	if req.Month != nil {
		task.Month = *req.Month
	}
	if req.Text != nil {
		task.Text = *req.Text
	}
	if req.FourYear != nil {
		task.FourYear = *req.FourYear
	}
	if req.TwoYear != nil {
		task.TwoYear = *req.TwoYear
	}
	if req.Apprenticeship != nil {
		task.Apprenticeship = *req.Apprenticeship
	}
	if req.Undecided != nil {
		task.Undecided = *req.Undecided
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.ReNotify != nil {
		task.ReNotify = *req.ReNotify
	}
	if req.Position != nil {
		task.Position = *req.Position
	}

	if err := s.repo.Catalog().Update(ctx, nil, task); err != nil {
		if errors.Is(err, repositories.ErrReadOnlyCatalog) {
			return nil, ErrCatalogReadOnly
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("Catalog task updated", "task_id", task.ID, "requester_id", requesterID)

	return task, nil
}

func (s *catalogService) Delete(ctx context.Context, id uint, requesterID string) error {
	if err := s.requireAdmin(ctx, requesterID, "delete"); err != nil {
		return err
	}

	if _, err := s.repo.Catalog().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to load task: %w", err)
	}

	if err := s.repo.Catalog().Delete(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrReadOnlyCatalog) {
			return ErrCatalogReadOnly
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("Catalog task deleted", "task_id", id, "requester_id", requesterID)
	return nil
}

func (s *catalogService) requireAdmin(ctx context.Context, requesterID, action string) error {
	requester, err := s.repo.Profile().GetByID(ctx, nil, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load requester profile: %w", err)
	}

	if requester.Role != models.RoleAdmin {
		return NewPermissionError(requesterID, "catalog", action, "requires admin role")
	}
	return nil
}
