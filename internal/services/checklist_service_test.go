package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ICAN-F-2025/readiness-service/internal/events"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

func newTestChecklistService(repo *fakeRepository, publisher events.EventPublisher) ChecklistService {
	return NewChecklistService(repo, nil, testLogger(), validator.New(), publisher)
}

func provisionStudent(t *testing.T, repo *fakeRepository, userID string) {
	t.Helper()
	if _, err := newTestProvisionService(repo, nil).Provision(context.Background(), userID); err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
}

func TestChecklistService_LoadChecklistOrdersMonths(t *testing.T) {
	repo := newFakeRepository()
	repo.addProfile(&models.Profile{
		ID: "user-1", Role: models.RoleStudent, Grade: models.Grade11, Plan: models.PlanFourYear,
	})
	// Authored out of order on purpose.
	repo.addTask(&models.MasterTask{
		ID: 10, Grade: models.Grade11, Track: models.TrackStudent, Month: "March",
		Text: "Register for the spring ACT", FourYear: true, TwoYear: true, Apprenticeship: true, Undecided: true,
	})
	repo.addTask(&models.MasterTask{
		ID: 11, Grade: models.Grade11, Track: models.TrackStudent, Month: "August",
		Text: "Review your senior year schedule", FourYear: true, TwoYear: true, Apprenticeship: true, Undecided: true,
	})
	repo.addTask(&models.MasterTask{
		ID: 12, Grade: models.Grade11, Track: models.TrackStudent, Month: "January",
		Text: "Start a college comparison list", FourYear: true, TwoYear: true, Apprenticeship: true, Undecided: true,
	})
	provisionStudent(t, repo, "user-1")

	service := newTestChecklistService(repo, nil)

	view, err := service.LoadChecklist(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("LoadChecklist failed: %v", err)
	}

	var months []string
	for _, group := range view.Months {
		months = append(months, group.Month)
	}
	want := []string{"August", "January", "March"}
	if len(months) != len(want) {
		t.Fatalf("months = %v, want %v", months, want)
	}
	for i := range want {
		if months[i] != want[i] {
			t.Errorf("months[%d] = %q, want %q", i, months[i], want[i])
		}
	}

	if view.Total != 3 || view.Completed != 0 || view.Progress != "0/3" {
		t.Errorf("view counts = %d/%d %q, want 0/3", view.Completed, view.Total, view.Progress)
	}
}

func TestChecklistService_ToggleRoundTrip(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)
	repo.addProfile(&models.Profile{
		ID: "user-1", Role: models.RoleStudent, Grade: models.Grade9, Plan: models.PlanFourYear,
	})
	provisionStudent(t, repo, "user-1")

	service := newTestChecklistService(repo, nil)
	ctx := context.Background()

	if _, err := service.LoadChecklist(ctx, "user-1"); err != nil {
		t.Fatalf("LoadChecklist failed: %v", err)
	}

	result, err := service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 1})
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !result.Done || result.Progress != "1/2" {
		t.Errorf("toggle on = done:%v progress:%q, want done:true 1/2", result.Done, result.Progress)
	}

	item, err := repo.Checklist().GetByUserAndTask(ctx, nil, "user-1", 1)
	if err != nil || !item.IsCompleted {
		t.Errorf("persisted item completed = %v (err %v), want true", item != nil && item.IsCompleted, err)
	}

	result, err = service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 1})
	if err != nil {
		t.Fatalf("ToggleTask off failed: %v", err)
	}
	if result.Done || result.Progress != "0/2" {
		t.Errorf("toggle off = done:%v progress:%q, want done:false 0/2", result.Done, result.Progress)
	}

	profile, _ := repo.Profile().GetByID(ctx, nil, "user-1")
	if profile.Progress != "0/2" {
		t.Errorf("stored progress = %q, want 0/2", profile.Progress)
	}
}

func TestChecklistService_ToggleWithoutLoadRebuildsView(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)
	repo.addProfile(&models.Profile{
		ID: "user-1", Role: models.RoleStudent, Grade: models.Grade9, Plan: models.PlanFourYear,
	})
	provisionStudent(t, repo, "user-1")

	service := newTestChecklistService(repo, nil)

	result, err := service.ToggleTask(context.Background(), "user-1", &ToggleTaskRequest{TaskID: 2})
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !result.Done || result.Progress != "1/2" {
		t.Errorf("result = done:%v progress:%q, want done:true 1/2", result.Done, result.Progress)
	}
}

func TestChecklistService_FailedPersistRevertsView(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)
	repo.addProfile(&models.Profile{
		ID: "user-1", Role: models.RoleStudent, Grade: models.Grade9, Plan: models.PlanFourYear,
	})
	provisionStudent(t, repo, "user-1")

	service := newTestChecklistService(repo, nil)
	ctx := context.Background()

	if _, err := service.LoadChecklist(ctx, "user-1"); err != nil {
		t.Fatalf("LoadChecklist failed: %v", err)
	}

	repo.upsertErr = errors.New("connection reset")
	if _, err := service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 1}); err == nil {
		t.Fatal("ToggleTask succeeded despite persist failure")
	}

	// The in-session view must show the pre-toggle state.
	view, err := service.LoadChecklist(ctx, "user-1")
	if err != nil {
		t.Fatalf("LoadChecklist failed: %v", err)
	}
	if view.Completed != 0 || view.Progress != "0/2" {
		t.Errorf("view after failed toggle = %d %q, want 0 0/2", view.Completed, view.Progress)
	}

	item, err := repo.Checklist().GetByUserAndTask(ctx, nil, "user-1", 1)
	if err != nil || item.IsCompleted {
		t.Errorf("persisted item after failed toggle = %v, want incomplete", item)
	}
}

func TestChecklistService_MonthCelebrationFiresOncePerSession(t *testing.T) {
	repo := newFakeRepository()
	repo.addProfile(&models.Profile{
		ID: "user-1", Role: models.RoleStudent, Grade: models.Grade9, Plan: models.PlanFourYear,
	})
	repo.addTask(&models.MasterTask{
		ID: 1, Grade: models.Grade9, Track: models.TrackStudent, Month: "August",
		Text: "Meet your counselor", FourYear: true, TwoYear: true, Apprenticeship: true, Undecided: true,
	})
	repo.addTask(&models.MasterTask{
		ID: 2, Grade: models.Grade9, Track: models.TrackStudent, Month: "August",
		Text: "Set up a study routine", FourYear: true, TwoYear: true, Apprenticeship: true, Undecided: true,
	})
	provisionStudent(t, repo, "user-1")

	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestChecklistService(repo, publisher)
	ctx := context.Background()

	first, err := service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 1})
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if first.CompletedMonth != nil {
		t.Errorf("celebration fired with month incomplete: %v", *first.CompletedMonth)
	}

	second, err := service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 2})
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if second.CompletedMonth == nil || *second.CompletedMonth != "August" {
		t.Fatalf("CompletedMonth = %v, want August", second.CompletedMonth)
	}

	// Untoggle and re-toggle: same month, same session, no repeat.
	if _, err := service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 2}); err != nil {
		t.Fatalf("untoggle failed: %v", err)
	}
	again, err := service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 2})
	if err != nil {
		t.Fatalf("re-toggle failed: %v", err)
	}
	if again.CompletedMonth != nil {
		t.Errorf("celebration repeated within session: %v", *again.CompletedMonth)
	}

	monthEvents := 0
	for _, event := range publisher.GetPublishedEvents() {
		if event.Type == events.EventMonthCompleted {
			monthEvents++
		}
	}
	if monthEvents != 1 {
		t.Errorf("month completed events = %d, want 1", monthEvents)
	}

	// A fresh session re-arms the celebration.
	service.EndSession("user-1")
	if _, err := service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 2}); err != nil {
		t.Fatalf("untoggle in new session failed: %v", err)
	}
	rearmed, err := service.ToggleTask(ctx, "user-1", &ToggleTaskRequest{TaskID: 2})
	if err != nil {
		t.Fatalf("toggle in new session failed: %v", err)
	}
	if rearmed.CompletedMonth == nil {
		t.Error("celebration did not re-arm after EndSession")
	}
}

func TestChecklistService_CounselorViewCollapsesToGeneral(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)
	repo.addProfile(&models.Profile{
		ID: "counselor-1", Role: models.RoleCounselor, Grade: models.Grade9, Plan: models.PlanNotApplicable,
	})
	provisionStudent(t, repo, "counselor-1")

	service := newTestChecklistService(repo, nil)

	view, err := service.LoadChecklist(context.Background(), "counselor-1")
	if err != nil {
		t.Fatalf("LoadChecklist failed: %v", err)
	}
	if len(view.Months) != 1 || view.Months[0].Month != models.CounselorGroup {
		t.Fatalf("counselor groups = %v, want single %q group", view.Months, models.CounselorGroup)
	}

	// Counselor months never celebrate.
	result, err := service.ToggleTask(context.Background(), "counselor-1", &ToggleTaskRequest{TaskID: 5})
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if result.CompletedMonth != nil {
		t.Errorf("counselor celebration fired: %v", *result.CompletedMonth)
	}
}

func TestChecklistService_PlanMismatchFallsBack(t *testing.T) {
	repo := newFakeRepository()
	repo.addProfile(&models.Profile{
		ID: "user-1", Role: models.RoleStudent, Grade: models.Grade9, Plan: models.PlanFourYear,
	})
	// Items exist but none are flagged for the profile's plan.
	repo.addTask(&models.MasterTask{
		ID: 1, Grade: models.Grade9, Track: models.TrackStudent, Month: "August",
		Text: "Tour a technical college", FourYear: false, TwoYear: true, Apprenticeship: true, Undecided: false,
	})
	if err := repo.Checklist().Insert(context.Background(), nil, &models.ChecklistItem{
		UserID: "user-1", TaskID: 1,
	}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	service := newTestChecklistService(repo, nil)

	view, err := service.LoadChecklist(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("LoadChecklist failed: %v", err)
	}
	if view.Total != 1 {
		t.Errorf("fallback view total = %d, want 1", view.Total)
	}
}

func TestChecklistService_ToggleUnknownTask(t *testing.T) {
	repo := newFakeRepository()
	seedStudentCatalog(repo)
	repo.addProfile(&models.Profile{
		ID: "user-1", Role: models.RoleStudent, Grade: models.Grade9, Plan: models.PlanFourYear,
	})
	provisionStudent(t, repo, "user-1")

	service := newTestChecklistService(repo, nil)

	if _, err := service.ToggleTask(context.Background(), "user-1", &ToggleTaskRequest{TaskID: 999}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("ToggleTask error = %v, want ErrTaskNotFound", err)
	}
}
