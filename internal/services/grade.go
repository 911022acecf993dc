package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/ICAN-F-2025/readiness-service/internal/models"
)

// CalculateGrade maps a graduation-year string onto a grade label for the
// school year containing now. The school year ending in June belongs to
// the calendar year it ends in, so from August onward the end year is
// next year. Absent or non-numeric input falls back to 9th grade.
func CalculateGrade(graduationYear string, now time.Time) models.GradeLevel {
	gradYear, err := strconv.Atoi(strings.TrimSpace(graduationYear))
	if err != nil {
		return models.Grade9
	}

	schoolYearEnd := now.Year()
	if now.Month() >= time.August {
		schoolYearEnd++
	}

	switch delta := gradYear - schoolYearEnd; {
	case delta < 0:
		return models.Graduated
	case delta == 0:
		return models.Grade12
	case delta == 1:
		return models.Grade11
	case delta == 2:
		return models.Grade10
	default:
		return models.Grade9
	}
}

// trackForRole maps a profile role onto its catalog track. Roles without
// a checklist (Admin, unrecognized) report ok=false.
func trackForRole(role models.UserRole) (models.TaskTrack, bool) {
	switch role {
	case models.RoleStudent, models.RoleParent:
		return models.TrackStudent, true
	case models.RoleCounselor:
		return models.TrackCounselor, true
	default:
		return "", false
	}
}

// planFilterForRole returns the plan filter used when querying the
// catalog for this profile. Counselor tasks have no plan dimension.
func planFilterForRole(role models.UserRole, plan models.CollegePlan) *models.CollegePlan {
	if role == models.RoleCounselor {
		return nil
	}
	p := plan
	return &p
}
