package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/events"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

type announcementService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewAnnouncementService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) AnnouncementService {
	return &announcementService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// List is open to every authenticated role.
func (s *announcementService) List(ctx context.Context, filters repositories.AnnouncementFilters) (*AnnouncementListResponse, error) {
	announcements, err := s.repo.Announcement().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	return &AnnouncementListResponse{Announcements: announcements}, nil
}

// Create posts an announcement. Only counselors and admins may post.
func (s *announcementService) Create(ctx context.Context, req *CreateAnnouncementRequest, requesterID string) (*models.Announcement, error) {
	if errs := s.validator.GetBusinessValidator().ValidateAnnouncementCreate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	if err := s.requirePoster(ctx, requesterID, "create"); err != nil {
		return nil, err
	}

	announcement := &models.Announcement{
		Content:  req.Content,
		Category: req.Category,
		Link:     req.Link,
		AuthorID: requesterID,
	}

	if err := s.repo.Announcement().Create(ctx, nil, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	s.logger.Info("Announcement posted",
		"announcement_id", announcement.ID, "author_id", requesterID)

	if s.eventPublisher != nil {
		event := events.NewEvent(events.EventAnnouncementPosted, map[string]interface{}{
			"announcement_id": announcement.ID,
			"author_id":       requesterID,
		})
		if err := s.eventPublisher.Publish(ctx, events.TopicNotifications, event); err != nil {
			s.logger.Warn("Failed to publish announcement event", "announcement_id", announcement.ID, "error", err)
		}
	}

	return announcement, nil
}

// Delete removes an announcement. Counselors may only delete their own
// posts; admins may delete any.
func (s *announcementService) Delete(ctx context.Context, id uint, requesterID string) error {
	requester, err := s.repo.Profile().GetByID(ctx, nil, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load requester profile: %w", err)
	}

	announcement, err := s.repo.Announcement().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrAnnouncementNotFound
		}
		return fmt.Errorf("failed to load announcement: %w", err)
	}

	switch requester.Role {
	case models.RoleAdmin:
	case models.RoleCounselor:
		if announcement.AuthorID != requesterID {
			return NewPermissionError(requesterID, "announcements", "delete", "counselors may only delete their own posts")
		}
	default:
		return NewPermissionError(requesterID, "announcements", "delete", "requires counselor or admin role")
	}

	if err := s.repo.Announcement().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	s.logger.Info("Announcement deleted", "announcement_id", id, "requester_id", requesterID)
	return nil
}

func (s *announcementService) requirePoster(ctx context.Context, requesterID, action string) error {
	requester, err := s.repo.Profile().GetByID(ctx, nil, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load requester profile: %w", err)
	}

	if requester.Role != models.RoleCounselor && requester.Role != models.RoleAdmin {
		return NewPermissionError(requesterID, "announcements", action, "requires counselor or admin role")
	}
	return nil
}
