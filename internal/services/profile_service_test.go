package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

func newTestProfileService(repo *fakeRepository, now time.Time) ProfileService {
	provisioner := newTestProvisionService(repo, nil)
	service := NewProfileService(repo, nil, testLogger(), validator.New(), nil, provisioner)
	service.(*profileService).now = func() time.Time { return now }
	return service
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestProfileService_UpsertCreatesAndProvisions(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	service := newTestProfileService(repo, now)

	resp, err := service.Upsert(context.Background(), "user-1", &UpsertProfileRequest{
		FullName:       "Jordan Reyes",
		Email:          "jordan@example.com",
		Role:           "Student",
		GraduationYear: strPtr("2028"),
		Plan:           strPtr(string(models.PlanFourYear)),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if resp.Grade != models.Grade9 {
		t.Errorf("Grade = %v, want %v", resp.Grade, models.Grade9)
	}
	if resp.Progress != "0/2" {
		t.Errorf("Progress = %q, want 0/2", resp.Progress)
	}

	ids, _ := repo.Checklist().ListTaskIDs(context.Background(), nil, "user-1")
	if len(ids) != 2 {
		t.Errorf("provisioned items = %d, want 2", len(ids))
	}
}

func TestProfileService_UpsertNormalizesRole(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)
	service := newTestProfileService(repo, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))

	resp, err := service.Upsert(context.Background(), "parent-1", &UpsertProfileRequest{
		FullName:       "Sam Okafor",
		Email:          "sam@example.com",
		Role:           "guardian",
		GraduationYear: strPtr("2028"),
		Plan:           strPtr(string(models.PlanUndecided)),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if resp.Role != models.RoleParent {
		t.Errorf("Role = %v, want %v", resp.Role, models.RoleParent)
	}
}

func TestProfileService_UpsertRejectsInvalidPayload(t *testing.T) {
	repo := newFakeRepository()
	service := newTestProfileService(repo, time.Now())

	_, err := service.Upsert(context.Background(), "user-1", &UpsertProfileRequest{
		FullName: "",
		Email:    "not-an-email",
		Role:     "Wizard",
	})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Upsert error = %v, want ErrValidationFailed", err)
	}
}

func TestProfileService_UpdateGraduationYearChangesGradeAndReprovisions(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	service := newTestProfileService(repo, now)
	ctx := context.Background()

	if _, err := service.Upsert(ctx, "user-1", &UpsertProfileRequest{
		FullName:       "Jordan Reyes",
		Email:          "jordan@example.com",
		Role:           "Student",
		GraduationYear: strPtr("2028"),
		Plan:           strPtr(string(models.PlanFourYear)),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	resp, err := service.Update(ctx, "user-1", &UpdateProfileRequest{
		GraduationYear: strPtr("2027"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if resp.Grade != models.Grade10 {
		t.Errorf("Grade = %v, want %v", resp.Grade, models.Grade10)
	}

	// Ninth grade items were swapped for the tenth grade catalog.
	ids, _ := repo.Checklist().ListTaskIDs(ctx, nil, "user-1")
	if len(ids) != 1 || ids[0] != 4 {
		t.Errorf("task IDs after grade change = %v, want [4]", ids)
	}
}

func TestProfileService_UpdatePreferencesMerges(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)
	service := newTestProfileService(repo, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := service.Upsert(ctx, "user-1", &UpsertProfileRequest{
		FullName:       "Jordan Reyes",
		Email:          "jordan@example.com",
		Role:           "Student",
		GraduationYear: strPtr("2028"),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	resp, err := service.UpdatePreferences(ctx, "user-1", &UpdatePreferencesRequest{
		ExpoPushToken: strPtr("ExponentPushToken[abc]"),
		TipOfWeek:     boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	if resp.ExpoPushToken == nil || *resp.ExpoPushToken != "ExponentPushToken[abc]" {
		t.Errorf("ExpoPushToken = %v, want ExponentPushToken[abc]", resp.ExpoPushToken)
	}
	if !resp.Preferences.TipOfWeek {
		t.Error("TipOfWeek not set")
	}

	// A second partial edit keeps the earlier flag.
	resp, err = service.UpdatePreferences(ctx, "user-1", &UpdatePreferencesRequest{
		GradeLevelAlerts: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("second UpdatePreferences failed: %v", err)
	}
	if !resp.Preferences.TipOfWeek || !resp.Preferences.GradeLevelAlerts {
		t.Errorf("preferences = %+v, want both flags set", resp.Preferences)
	}
}

func TestProfileService_ListRequiresCounselorOrAdmin(t *testing.T) {
	repo := newFakeRepository()
	repo.addProfile(&models.Profile{ID: "student-1", Role: models.RoleStudent, Grade: models.Grade9})
	repo.addProfile(&models.Profile{ID: "counselor-1", Role: models.RoleCounselor, Grade: models.Grade9})

	service := newTestProfileService(repo, time.Now())
	ctx := context.Background()

	if _, err := service.List(ctx, repositories.ProfileFilters{}, "student-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("student List error = %v, want ErrForbidden", err)
	}

	resp, err := service.List(ctx, repositories.ProfileFilters{}, "counselor-1")
	if err != nil {
		t.Fatalf("counselor List failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}

func TestProfileService_GetMissing(t *testing.T) {
	repo := newFakeRepository()
	service := newTestProfileService(repo, time.Now())

	if _, err := service.Get(context.Background(), "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Get error = %v, want ErrProfileNotFound", err)
	}
}
