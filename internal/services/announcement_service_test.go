package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

func newTestAnnouncementService(repo *fakeRepository) AnnouncementService {
	return NewAnnouncementService(repo, nil, testLogger(), validator.New(), nil)
}

func seedRoles(repo *fakeRepository) {
	repo.addProfile(&models.Profile{ID: "student-1", Role: models.RoleStudent, Grade: models.Grade9})
	repo.addProfile(&models.Profile{ID: "counselor-1", Role: models.RoleCounselor, Grade: models.Grade9})
	repo.addProfile(&models.Profile{ID: "counselor-2", Role: models.RoleCounselor, Grade: models.Grade9})
	repo.addProfile(&models.Profile{ID: "admin-1", Role: models.RoleAdmin, Grade: models.Grade9})
}

func TestAnnouncementService_CreateRequiresPosterRole(t *testing.T) {
	repo := newFakeRepository()
	seedRoles(repo)
	service := newTestAnnouncementService(repo)
	ctx := context.Background()

	req := &CreateAnnouncementRequest{Content: "FAFSA night is Thursday at 6pm."}

	if _, err := service.Create(ctx, req, "student-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("student Create error = %v, want ErrForbidden", err)
	}

	announcement, err := service.Create(ctx, req, "counselor-1")
	if err != nil {
		t.Fatalf("counselor Create failed: %v", err)
	}
	if announcement.AuthorID != "counselor-1" {
		t.Errorf("AuthorID = %q, want counselor-1", announcement.AuthorID)
	}
}

func TestAnnouncementService_CreateValidatesContent(t *testing.T) {
	repo := newFakeRepository()
	seedRoles(repo)
	service := newTestAnnouncementService(repo)

	_, err := service.Create(context.Background(), &CreateAnnouncementRequest{Content: "   "}, "counselor-1")
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Create error = %v, want ErrValidationFailed", err)
	}
}

func TestAnnouncementService_DeleteOwnershipRules(t *testing.T) {
	repo := newFakeRepository()
	seedRoles(repo)
	service := newTestAnnouncementService(repo)
	ctx := context.Background()

	announcement, err := service.Create(ctx, &CreateAnnouncementRequest{Content: "Scholarship deadline moved."}, "counselor-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := service.Delete(ctx, announcement.ID, "counselor-2"); !errors.Is(err, ErrForbidden) {
		t.Errorf("other counselor Delete error = %v, want ErrForbidden", err)
	}
	if err := service.Delete(ctx, announcement.ID, "student-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("student Delete error = %v, want ErrForbidden", err)
	}

	// Admins may delete anyone's post.
	if err := service.Delete(ctx, announcement.ID, "admin-1"); err != nil {
		t.Fatalf("admin Delete failed: %v", err)
	}

	if err := service.Delete(ctx, announcement.ID, "admin-1"); !errors.Is(err, ErrAnnouncementNotFound) {
		t.Errorf("second Delete error = %v, want ErrAnnouncementNotFound", err)
	}
}

func TestAnnouncementService_ListFilters(t *testing.T) {
	repo := newFakeRepository()
	seedRoles(repo)
	service := newTestAnnouncementService(repo)
	ctx := context.Background()

	events := "events"
	if _, err := service.Create(ctx, &CreateAnnouncementRequest{Content: "College fair Friday.", Category: &events}, "counselor-1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := service.Create(ctx, &CreateAnnouncementRequest{Content: "New scholarship posted."}, "counselor-1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	all, err := service.List(ctx, repositories.AnnouncementFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all.Announcements) != 2 {
		t.Errorf("unfiltered list = %d, want 2", len(all.Announcements))
	}

	filtered, err := service.List(ctx, repositories.AnnouncementFilters{Category: &events})
	if err != nil {
		t.Fatalf("filtered List failed: %v", err)
	}
	if len(filtered.Announcements) != 1 {
		t.Errorf("filtered list = %d, want 1", len(filtered.Announcements))
	}
}
