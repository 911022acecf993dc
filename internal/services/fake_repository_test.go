package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
)

// fakeRepository is an in-memory Repository used across service tests.
type fakeRepository struct {
	mu sync.Mutex

	profiles      map[string]*models.Profile
	tasks         map[uint]*models.MasterTask
	items         map[string]map[uint]*models.ChecklistItem
	announcements map[uint]*models.Announcement

	nextItemID         uint
	nextAnnouncementID uint

	// upsertErr simulates a failed persist on the next Upsert call.
	upsertErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		profiles:      make(map[string]*models.Profile),
		tasks:         make(map[uint]*models.MasterTask),
		items:         make(map[string]map[uint]*models.ChecklistItem),
		announcements: make(map[uint]*models.Announcement),
	}
}

func (f *fakeRepository) addProfile(p *models.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p
}

func (f *fakeRepository) addTask(t *models.MasterTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = t
}

func (f *fakeRepository) Profile() repositories.ProfileRepository {
	return &fakeProfileRepo{f}
}

func (f *fakeRepository) Catalog() repositories.CatalogRepository {
	return &fakeCatalogRepo{f}
}

func (f *fakeRepository) Checklist() repositories.ChecklistRepository {
	return &fakeChecklistRepo{f}
}

func (f *fakeRepository) Announcement() repositories.AnnouncementRepository {
	return &fakeAnnouncementRepo{f}
}

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ===== PROFILE =====

type fakeProfileRepo struct{ f *fakeRepository }

func (r *fakeProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	profile, ok := r.f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, profile := range r.f.profiles {
		if profile.Email == email {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.profiles[profile.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *profile
	r.f.profiles[profile.ID] = &clone
	return nil
}

func (r *fakeProfileRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, id string, progress string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	profile, ok := r.f.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.Progress = progress
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.profiles, id)
	return nil
}

func (r *fakeProfileRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Profile
	for _, profile := range r.f.profiles {
		if filters.Role != nil && profile.Role != *filters.Role {
			continue
		}
		if filters.Grade != nil && profile.Grade != *filters.Grade {
			continue
		}
		if filters.SchoolName != nil && profile.SchoolName != *filters.SchoolName {
			continue
		}
		clone := *profile
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeProfileRepo) ListNotifiable(ctx context.Context, tx *gorm.DB, grade models.GradeLevel) ([]*models.Profile, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Profile
	for _, profile := range r.f.profiles {
		if profile.Grade != grade {
			continue
		}
		if profile.ExpoPushToken == nil || *profile.ExpoPushToken == "" {
			continue
		}
		clone := *profile
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProfileRepo) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	_, ok := r.f.profiles[id]
	return ok, nil
}

// ===== CATALOG =====

type fakeCatalogRepo struct{ f *fakeRepository }

func (r *fakeCatalogRepo) ListTasks(ctx context.Context, tx *gorm.DB, filters repositories.TaskFilters) ([]*models.MasterTask, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.MasterTask
	for _, task := range r.f.tasks {
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
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeCatalogRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MasterTask, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	task, ok := r.f.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (r *fakeCatalogRepo) Create(ctx context.Context, tx *gorm.DB, task *models.MasterTask) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if task.ID == 0 {
		task.ID = uint(len(r.f.tasks) + 1)
	}
	task.CreatedAt = time.Now()
	r.f.tasks[task.ID] = task
	return nil
}

func (r *fakeCatalogRepo) Update(ctx context.Context, tx *gorm.DB, task *models.MasterTask) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.tasks[task.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.f.tasks[task.ID] = task
	return nil
}

func (r *fakeCatalogRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.tasks, id)
	return nil
}

func (r *fakeCatalogRepo) BulkCreate(ctx context.Context, tx *gorm.DB, tasks []*models.MasterTask) error {
	for _, task := range tasks {
		if err := r.Create(ctx, tx, task); err != nil {
			return err
		}
	}
	return nil
}

// ===== CHECKLIST =====

type fakeChecklistRepo struct{ f *fakeRepository }

func (r *fakeChecklistRepo) userItems(userID string) map[uint]*models.ChecklistItem {
	items, ok := r.f.items[userID]
	if !ok {
		items = make(map[uint]*models.ChecklistItem)
		r.f.items[userID] = items
	}
	return items
}

func (r *fakeChecklistRepo) GetByUserAndTask(ctx context.Context, tx *gorm.DB, userID string, taskID uint) (*models.ChecklistItem, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	item, ok := r.userItems(userID)[taskID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *fakeChecklistRepo) ListTaskIDs(ctx context.Context, tx *gorm.DB, userID string) ([]uint, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var ids []uint
	for id := range r.userItems(userID) {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeChecklistRepo) ListForGrade(ctx context.Context, tx *gorm.DB, userID string, grade models.GradeLevel, track models.TaskTrack, plan *models.CollegePlan) ([]*models.ChecklistItem, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.ChecklistItem
	for taskID, item := range r.userItems(userID) {
		task, ok := r.f.tasks[taskID]
		if !ok || task.Grade != grade || task.Track != track {
			continue
		}
		if plan != nil && !task.EligibleFor(*plan) {
			continue
		}
		clone := *item
		clone.Task = task
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out, nil
}

func (r *fakeChecklistRepo) Insert(ctx context.Context, tx *gorm.DB, item *models.ChecklistItem) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.nextItemID++
	item.ID = r.f.nextItemID
	r.userItems(item.UserID)[item.TaskID] = item
	return nil
}

func (r *fakeChecklistRepo) BulkInsert(ctx context.Context, tx *gorm.DB, items []*models.ChecklistItem) error {
	for _, item := range items {
		if err := r.Insert(ctx, tx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeChecklistRepo) Upsert(ctx context.Context, tx *gorm.DB, item *models.ChecklistItem) error {
	r.f.mu.Lock()
	if err := r.f.upsertErr; err != nil {
		r.f.upsertErr = nil
		r.f.mu.Unlock()
		return err
	}
	existing, ok := r.userItems(item.UserID)[item.TaskID]
	if ok {
		existing.IsCompleted = item.IsCompleted
		r.f.mu.Unlock()
		return nil
	}
	r.f.mu.Unlock()
	return r.Insert(ctx, tx, item)
}

func (r *fakeChecklistRepo) DeleteMismatched(ctx context.Context, tx *gorm.DB, userID string, grade models.GradeLevel, track models.TaskTrack, plan *models.CollegePlan) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var removed int64
	items := r.userItems(userID)
	for taskID := range items {
		task, ok := r.f.tasks[taskID]
		if ok && task.Grade == grade && task.Track == track &&
			(plan == nil || task.EligibleFor(*plan)) {
			continue
		}
		delete(items, taskID)
		removed++
	}
	return removed, nil
}

func (r *fakeChecklistRepo) Counts(ctx context.Context, tx *gorm.DB, userID string) (*repositories.ChecklistCounts, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	counts := &repositories.ChecklistCounts{}
	for _, item := range r.userItems(userID) {
		counts.Total++
		if item.IsCompleted {
			counts.Completed++
		}
	}
	return counts, nil
}

// ===== ANNOUNCEMENT =====

type fakeAnnouncementRepo struct{ f *fakeRepository }

func (r *fakeAnnouncementRepo) Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.nextAnnouncementID++
	announcement.ID = r.f.nextAnnouncementID
	announcement.CreatedAt = time.Now()
	r.f.announcements[announcement.ID] = announcement
	return nil
}

func (r *fakeAnnouncementRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	announcement, ok := r.f.announcements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return announcement, nil
}

func (r *fakeAnnouncementRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.AnnouncementFilters) ([]*models.Announcement, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Announcement
	for _, announcement := range r.f.announcements {
		if filters.Category != nil && (announcement.Category == nil || *announcement.Category != *filters.Category) {
			continue
		}
		if filters.Since != nil && announcement.CreatedAt.Before(*filters.Since) {
			continue
		}
		out = append(out, announcement)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAnnouncementRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.announcements, id)
	return nil
}
