package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/events"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
)

type reminderService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	eventPublisher events.EventPublisher

	now func() time.Time
}

func NewReminderService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, eventPublisher events.EventPublisher) ReminderService {
	return &reminderService{
		repo:           repo,
		db:             db,
		logger:         logger,
		eventPublisher: eventPublisher,
		now:            time.Now,
	}
}

// Run performs one sweep over the catalog's dated tasks. Two passes:
// tasks due today or tomorrow produce a due-soon push, and re-notify
// tasks due two days ago produce an overdue push. Users who already
// completed the task are skipped.
func (s *reminderService) Run(ctx context.Context) (*ReminderRunResult, error) {
	today := startOfDay(s.now())
	result := &ReminderRunResult{}

	dueSoon, err := s.tasksDueBetween(ctx, today, today.AddDate(0, 0, 1), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load due-soon tasks: %w", err)
	}
	result.DueSoonTasks = len(dueSoon)

	reNotify := true
	twoDaysAgo := today.AddDate(0, 0, -2)
	overdue, err := s.tasksDueBetween(ctx, twoDaysAgo, twoDaysAgo, &reNotify)
	if err != nil {
		return nil, fmt.Errorf("failed to load overdue tasks: %w", err)
	}
	result.OverdueTasks = len(overdue)

	sent, err := s.notifyForTasks(ctx, dueSoon, "Task Due Soon!", "Don't forget: %s is due soon.")
	if err != nil {
		return nil, err
	}
	result.Notifications += sent

	sent, err = s.notifyForTasks(ctx, overdue, "Task Overdue!", "Reminder: %s is still not completed.")
	if err != nil {
		return nil, err
	}
	result.Notifications += sent

	s.logger.Info("Reminder sweep finished",
		"due_soon_tasks", result.DueSoonTasks,
		"overdue_tasks", result.OverdueTasks,
		"notifications", result.Notifications)

	return result, nil
}

func (s *reminderService) tasksDueBetween(ctx context.Context, from, to time.Time, reNotify *bool) ([]*models.MasterTask, error) {
	// The window closes at the end of the last day.
	end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return s.repo.Catalog().ListTasks(ctx, nil, repositories.TaskFilters{
		DueFrom:  &from,
		DueTo:    &end,
		ReNotify: reNotify,
	})
}

func (s *reminderService) notifyForTasks(ctx context.Context, tasks []*models.MasterTask, title, bodyFormat string) (int, error) {
	sent := 0
	for _, task := range tasks {
		profiles, err := s.repo.Profile().ListNotifiable(ctx, nil, task.Grade)
		if err != nil {
			return sent, fmt.Errorf("failed to list notifiable profiles for grade %s: %w", task.Grade, err)
		}

		for _, profile := range profiles {
			item, err := s.repo.Checklist().GetByUserAndTask(ctx, nil, profile.ID, task.ID)
			if err != nil && !repositories.IsNotFoundError(err) {
				return sent, fmt.Errorf("failed to load checklist item: %w", err)
			}
			if item != nil && item.IsCompleted {
				continue
			}

			push := PushNotification{
				To:    *profile.ExpoPushToken,
				Sound: "default",
				Title: title,
				Body:  fmt.Sprintf(bodyFormat, task.Text),
			}
			if err := s.publishPush(ctx, profile.ID, task.ID, push); err != nil {
				// One bad token never stops the sweep.
				s.logger.Warn("Failed to publish reminder",
					"user_id", profile.ID, "task_id", task.ID, "error", err)
				continue
			}
			sent++
		}
	}
	return sent, nil
}

func (s *reminderService) publishPush(ctx context.Context, userID string, taskID uint, push PushNotification) error {
	if s.eventPublisher == nil {
		return nil
	}
	event := events.NewEvent(events.EventReminderPush, map[string]interface{}{
		"user_id": userID,
		"task_id": taskID,
		"push":    push,
	})
	return s.eventPublisher.Publish(ctx, events.TopicNotifications, event)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
