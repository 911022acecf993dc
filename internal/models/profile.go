package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleStudent   UserRole = "Student"
	RoleParent    UserRole = "Parent/Guardian"
	RoleCounselor UserRole = "Counselor"
	RoleAdmin     UserRole = "Admin"
)

// NormalizeRole maps the long-form roles collected by older profile screens
// (Parent, Guardian, School Counselor, Educator, ...) onto the canonical set.
func NormalizeRole(raw string) UserRole {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "student", "learner":
		return RoleStudent
	case "parent", "guardian", "parent/guardian":
		return RoleParent
	case "counselor", "school counselor", "college access professional", "educator", "trio/gearup/upward bound":
		return RoleCounselor
	case "admin", "administrator":
		return RoleAdmin
	default:
		return ""
	}
}

type GradeLevel string

const (
	Grade9    GradeLevel = "9th"
	Grade10   GradeLevel = "10th"
	Grade11   GradeLevel = "11th"
	Grade12   GradeLevel = "12th"
	Graduated GradeLevel = "Graduated"
)

type CollegePlan string

const (
	PlanTwoYear        CollegePlan = "2-year college"
	PlanFourYear       CollegePlan = "4-year college"
	PlanApprenticeship CollegePlan = "Apprenticeship"
	PlanUndecided      CollegePlan = "Not decided"
	PlanNotApplicable  CollegePlan = "N/A"
)

// Profile holds the role/grade/plan record every checklist operation keys off.
// Progress is a denormalized "completed/total" summary recomputed after every
// toggle and every re-provisioning; it is never the source of truth.
type Profile struct {
	ID             string      `json:"id" gorm:"primaryKey;size:255"`
	FullName       string      `json:"full_name" gorm:"not null;size:100"`
	Email          string      `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role           UserRole    `json:"role" gorm:"size:32;index"`
	Grade          GradeLevel  `json:"grade" gorm:"size:16;index"`
	GraduationYear string      `json:"graduation_year" gorm:"size:8;default:'N/A'"`
	Plan           CollegePlan `json:"plan" gorm:"size:32"`
	SchoolName     string      `json:"school_name" gorm:"size:200"`
	Progress       string      `json:"progress" gorm:"size:16;default:'0/0'"`

	// Push + notification preferences (tip of the week, grade alerts, ...)
	ExpoPushToken     *string        `json:"expo_push_token" gorm:"size:255"`
	NotificationPrefs datatypes.JSON `json:"notification_prefs"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Profile) TableName() string {
	return "profiles"
}

// NotificationPrefs mirrors the preference checkboxes from the mobile
// preferences screen; stored on the profile as a JSON column.
type NotificationPrefs struct {
	TipOfWeek           bool `json:"ican_tip_of_week"`
	GradeLevelAlerts    bool `json:"grade_level_alerts"`
	CounselorEmails     bool `json:"counselor_emails"`
	AccessProfessionals bool `json:"college_access_professionals"`
}
