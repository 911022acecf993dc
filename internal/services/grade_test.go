package services

import (
	"testing"
	"time"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
)

func TestCalculateGrade(t *testing.T) {
	spring := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	fall := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)
	august := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2025, time.July, 31, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		graduationYear string
		now            time.Time
		want           models.GradeLevel
	}{
		{name: "senior in spring", graduationYear: "2025", now: spring, want: models.Grade12},
		{name: "junior in spring", graduationYear: "2026", now: spring, want: models.Grade11},
		{name: "sophomore in spring", graduationYear: "2027", now: spring, want: models.Grade10},
		{name: "freshman in spring", graduationYear: "2028", now: spring, want: models.Grade9},
		{name: "graduated in spring", graduationYear: "2024", now: spring, want: models.Graduated},
		{name: "far future year", graduationYear: "2031", now: spring, want: models.Grade9},

		{name: "new school year starts in august", graduationYear: "2026", now: august, want: models.Grade12},
		{name: "july still belongs to ending year", graduationYear: "2026", now: july, want: models.Grade11},
		{name: "senior in fall", graduationYear: "2026", now: fall, want: models.Grade12},
		{name: "last year's senior graduated by fall", graduationYear: "2025", now: fall, want: models.Graduated},

		{name: "empty year falls back", graduationYear: "", now: spring, want: models.Grade9},
		{name: "not applicable falls back", graduationYear: "N/A", now: spring, want: models.Grade9},
		{name: "garbage falls back", graduationYear: "soon", now: spring, want: models.Grade9},
		{name: "whitespace is trimmed", graduationYear: " 2025 ", now: spring, want: models.Grade12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateGrade(tt.graduationYear, tt.now); got != tt.want {
				t.Errorf("CalculateGrade(%q) = %v, want %v", tt.graduationYear, got, tt.want)
			}
		})
	}
}

func TestTrackForRole(t *testing.T) {
	tests := []struct {
		role      models.UserRole
		wantTrack models.TaskTrack
		wantOK    bool
	}{
		{role: models.RoleStudent, wantTrack: models.TrackStudent, wantOK: true},
		{role: models.RoleParent, wantTrack: models.TrackStudent, wantOK: true},
		{role: models.RoleCounselor, wantTrack: models.TrackCounselor, wantOK: true},
		{role: models.RoleAdmin, wantOK: false},
		{role: models.UserRole("Janitor"), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			track, ok := trackForRole(tt.role)
			if ok != tt.wantOK || track != tt.wantTrack {
				t.Errorf("trackForRole(%q) = (%v, %v), want (%v, %v)", tt.role, track, ok, tt.wantTrack, tt.wantOK)
			}
		})
	}
}

func TestPlanFilterForRole(t *testing.T) {
	if got := planFilterForRole(models.RoleCounselor, models.PlanFourYear); got != nil {
		t.Errorf("counselor plan filter = %v, want nil", *got)
	}

	got := planFilterForRole(models.RoleStudent, models.PlanTwoYear)
	if got == nil || *got != models.PlanTwoYear {
		t.Errorf("student plan filter = %v, want %v", got, models.PlanTwoYear)
	}
}
