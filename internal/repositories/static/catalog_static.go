package static

import (
	"context"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
)

// StaticCatalog serves the built-in curriculum from memory. It backs
// deployments that run without a managed task table. All writes are
// rejected; curriculum changes ship with the binary.
type StaticCatalog struct {
	tasks []*models.MasterTask
	byID  map[uint]*models.MasterTask
}

func NewStaticCatalog() *StaticCatalog {
	tasks := curriculumTasks()
	byID := make(map[uint]*models.MasterTask, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}
	return &StaticCatalog{
		tasks: tasks,
		byID:  byID,
	}
}

// ListTasks filters the built-in curriculum. The tx handle is ignored.
func (s *StaticCatalog) ListTasks(ctx context.Context, tx *gorm.DB, filters repositories.TaskFilters) ([]*models.MasterTask, error) {
	var result []*models.MasterTask
	for _, task := range s.tasks {
		if filters.Grade != nil && task.Grade != *filters.Grade {
			continue
		}
		if filters.Track != nil && task.Track != *filters.Track {
			continue
		}
		if filters.Month != nil && task.Month != *filters.Month {
			continue
		}
		if filters.Plan != nil && !task.EligibleFor(*filters.Plan) {
			continue
		}
		if filters.DueFrom != nil && (task.DueDate == nil || task.DueDate.Before(*filters.DueFrom)) {
			continue
		}
		if filters.DueTo != nil && (task.DueDate == nil || task.DueDate.After(*filters.DueTo)) {
			continue
		}
		if filters.ReNotify != nil && task.ReNotify != *filters.ReNotify {
			continue
		}
		result = append(result, task)
	}

	if filters.Offset > 0 {
		if filters.Offset >= len(result) {
			return nil, nil
		}
		result = result[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(result) {
		result = result[:filters.Limit]
	}

	return result, nil
}

func (s *StaticCatalog) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MasterTask, error) {
	task, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (s *StaticCatalog) Create(ctx context.Context, tx *gorm.DB, task *models.MasterTask) error {
	return repositories.ErrReadOnlyCatalog
}

func (s *StaticCatalog) Update(ctx context.Context, tx *gorm.DB, task *models.MasterTask) error {
	return repositories.ErrReadOnlyCatalog
}

func (s *StaticCatalog) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return repositories.ErrReadOnlyCatalog
}

func (s *StaticCatalog) BulkCreate(ctx context.Context, tx *gorm.DB, tasks []*models.MasterTask) error {
	return repositories.ErrReadOnlyCatalog
}
