package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/events"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

// checklistSession holds the per-user rendered view plus the month keys
// whose completion celebration already fired. Celebrations fire at most
// once per (grade, month) until the session ends.
type checklistSession struct {
	view        *ChecklistResponse
	firedMonths map[string]struct{}
}

type checklistService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher

	sessions map[string]*checklistSession
	mu       sync.Mutex
}

func NewChecklistService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ChecklistService {
	return &checklistService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		sessions:       make(map[string]*checklistSession),
	}
}

// LoadChecklist recomputes the full month-grouped view from storage.
func (s *checklistService) LoadChecklist(ctx context.Context, userID string) (*ChecklistResponse, error) {
	view, _, err := s.buildView(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.session(userID).view = view
	s.mu.Unlock()

	return view, nil
}

// ToggleTask flips one item: optimistic in-session flip, persist, then
// recompute progress from a fresh count. A failed persist reverts the
// session view to its pre-toggle state.
func (s *checklistService) ToggleTask(ctx context.Context, userID string, req *ToggleTaskRequest) (*ToggleResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.session(userID)
	if session.view == nil || findTask(session.view, req.TaskID) == nil {
		// Session view missing or stale; rebuild before toggling.
		view, _, err := s.buildView(ctx, userID)
		if err != nil {
			return nil, err
		}
		session.view = view
	}

	view := session.view
	group, task := view.Find(req.TaskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	// Optimistic flip, reverted below if the write fails.
	wasDone := task.Done
	task.Done = !wasDone
	if task.Done {
		view.Completed++
	} else {
		view.Completed--
	}

	err := s.repo.Checklist().Upsert(ctx, nil, &models.ChecklistItem{
		UserID:      userID,
		TaskID:      req.TaskID,
		IsCompleted: task.Done,
	})
	if err != nil {
		task.Done = wasDone
		if wasDone {
			view.Completed++
		} else {
			view.Completed--
		}
		return nil, fmt.Errorf("failed to persist toggle: %w", err)
	}

	// Progress comes from a fresh count, not the optimistic counter.
	counts, err := s.repo.Checklist().Counts(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}
	progress := fmt.Sprintf("%d/%d", counts.Completed, counts.Total)
	view.Completed = int(counts.Completed)
	view.Total = int(counts.Total)
	view.Progress = progress
	view.Ratio = view.ChecklistView.Ratio()

	if err := s.repo.Profile().UpdateProgress(ctx, nil, userID, progress); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	result := &ToggleResult{
		TaskID:    req.TaskID,
		Done:      task.Done,
		Completed: view.Completed,
		Total:     view.Total,
		Progress:  progress,
	}

	// Month completion only counts after a successful persist, and only
	// fires once per (grade, month) per session.
	if task.Done && group != nil && group.Month != models.CounselorGroup && monthComplete(group) {
		key := fmt.Sprintf("%s|%s", view.Grade, group.Month)
		if _, fired := session.firedMonths[key]; !fired {
			session.firedMonths[key] = struct{}{}
			month := group.Month
			result.CompletedMonth = &month
			s.publishEvent(ctx, events.EventMonthCompleted, map[string]interface{}{
				"user_id": userID,
				"grade":   view.Grade,
				"month":   month,
			})
		}
	}

	s.publishEvent(ctx, events.EventTaskToggled, map[string]interface{}{
		"user_id":  userID,
		"task_id":  req.TaskID,
		"done":     task.Done,
		"progress": progress,
	})

	return result, nil
}

// EndSession forgets the user's view state and re-arms celebrations.
func (s *checklistService) EndSession(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// session returns the user's session, creating it if needed. Callers
// hold s.mu.
func (s *checklistService) session(userID string) *checklistSession {
	session, ok := s.sessions[userID]
	if !ok {
		session = &checklistSession{firedMonths: make(map[string]struct{})}
		s.sessions[userID] = session
	}
	return session
}

// buildView fetches items for the user's current grade and renders the
// month-grouped view.
func (s *checklistService) buildView(ctx context.Context, userID string) (*ChecklistResponse, *models.Profile, error) {
	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}

	track, ok := trackForRole(profile.Role)
	if !ok {
		// Unrecognized roles get an empty view, not an error.
		view := &ChecklistResponse{
			ChecklistView: &models.ChecklistView{Grade: profile.Grade},
			Progress:      "0/0",
		}
		return view, profile, nil
	}

	plan := planFilterForRole(profile.Role, profile.Plan)
	items, err := s.repo.Checklist().ListForGrade(ctx, nil, userID, profile.Grade, track, plan)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load checklist items: %w", err)
	}

	// Stale or missing plan metadata can filter everything out; one
	// fallback without the plan filter tolerates that.
	if len(items) == 0 && plan != nil {
		items, err = s.repo.Checklist().ListForGrade(ctx, nil, userID, profile.Grade, track, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load checklist items: %w", err)
		}
	}

	view := &ChecklistResponse{
		ChecklistView: groupItems(profile, items),
	}
	view.Progress = fmt.Sprintf("%d/%d", view.Completed, view.Total)
	view.Ratio = view.ChecklistView.Ratio()

	return view, profile, nil
}

// groupItems renders joined items into the ordered month view. Counselor
// items collapse into the single General group; everyone else gets
// months in school-year order, absent months omitted.
func groupItems(profile *models.Profile, items []*models.ChecklistItem) *models.ChecklistView {
	view := &models.ChecklistView{Grade: profile.Grade}

	byMonth := make(map[string][]*models.ChecklistItem)
	for _, item := range items {
		if item.Task == nil {
			continue
		}
		month := item.Task.Month
		if profile.Role == models.RoleCounselor {
			month = models.CounselorGroup
		}
		byMonth[month] = append(byMonth[month], item)

		view.Total++
		if item.IsCompleted {
			view.Completed++
		}
	}

	order := models.SchoolYearMonths
	if profile.Role == models.RoleCounselor {
		order = []string{models.CounselorGroup}
	}

	for _, month := range order {
		monthItems, ok := byMonth[month]
		if !ok {
			continue
		}

		sort.SliceStable(monthItems, func(i, j int) bool {
			a, b := monthItems[i].Task, monthItems[j].Task
			if a.Position != b.Position {
				return a.Position < b.Position
			}
			return a.ID < b.ID
		})

		group := models.MonthGroup{Month: month}
		for _, item := range monthItems {
			group.Tasks = append(group.Tasks, models.ChecklistTask{
				ID:   item.TaskID,
				Text: item.Task.Text,
				Done: item.IsCompleted,
			})
		}
		view.Months = append(view.Months, group)
	}

	return view
}

func findTask(view *ChecklistResponse, taskID uint) *models.ChecklistTask {
	_, task := view.Find(taskID)
	return task
}

func monthComplete(group *models.MonthGroup) bool {
	for _, task := range group.Tasks {
		if !task.Done {
			return false
		}
	}
	return len(group.Tasks) > 0
}

func (s *checklistService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewEvent(eventType, data)
	if err := s.eventPublisher.Publish(ctx, events.TopicChecklist, event); err != nil {
		s.logger.Warn("Failed to publish checklist event", "event_type", eventType, "error", err)
	}
}
