package validator

import "time"

// ProfileUpsertRequest represents the request structure for creating or
// replacing a profile
type ProfileUpsertRequest struct {
	FullName       string  `json:"full_name" validate:"required,min=1,max=120"`
	Email          string  `json:"email" validate:"required,email"`
	Role           string  `json:"role" validate:"required,user_role"`
	GraduationYear *string `json:"graduation_year" validate:"omitempty,graduation_year"`
	Plan           *string `json:"plan" validate:"omitempty,college_plan"`
	SchoolName     *string `json:"school_name" validate:"omitempty,max=200"`
}

// ProfileUpdateRequest represents a partial profile edit
type ProfileUpdateRequest struct {
	FullName       *string `json:"full_name" validate:"omitempty,min=1,max=120"`
	GraduationYear *string `json:"graduation_year" validate:"omitempty,graduation_year"`
	Plan           *string `json:"plan" validate:"omitempty,college_plan"`
	SchoolName     *string `json:"school_name" validate:"omitempty,max=200"`
}

// PreferencesUpdateRequest represents notification preference edits
type PreferencesUpdateRequest struct {
	ExpoPushToken       *string `json:"expo_push_token" validate:"omitempty,max=200"`
	TipOfWeek           *bool   `json:"tip_of_week"`
	GradeLevelAlerts    *bool   `json:"grade_level_alerts"`
	CounselorEmails     *bool   `json:"counselor_emails"`
	AccessProfessionals *bool   `json:"access_professionals"`
}

// TaskToggleRequest represents flipping one checklist item. Month is a
// hint from the client's current view; the task's own month wins.
type TaskToggleRequest struct {
	TaskID uint   `json:"task_id" validate:"required"`
	Month  string `json:"month" validate:"omitempty,school_month"`
}

// AnnouncementCreateRequest represents posting an announcement
type AnnouncementCreateRequest struct {
	Content  string  `json:"content" validate:"required,min=1,max=1000"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	Link     *string `json:"link" validate:"omitempty,url,max=500"`
}

// TaskCreateRequest represents adding a master task to the catalog
type TaskCreateRequest struct {
	Grade          string     `json:"grade" validate:"required,grade_level"`
	Track          string     `json:"track" validate:"omitempty,oneof=student counselor"`
	Month          string     `json:"month" validate:"omitempty,school_month"`
	Text           string     `json:"text" validate:"required,min=1,max=500"`
	FourYear       *bool      `json:"four_year"`
	TwoYear        *bool      `json:"two_year"`
	Apprenticeship *bool      `json:"apprenticeship"`
	Undecided      *bool      `json:"undecided"`
	DueDate        *time.Time `json:"due_date"`
	ReNotify       *bool      `json:"re_notify"`
	Position       *int       `json:"position" validate:"omitempty,min=0"`
}

// TaskUpdateRequest represents editing a master task
type TaskUpdateRequest struct {
	Month          *string    `json:"month" validate:"omitempty,school_month"`
	Text           *string    `json:"text" validate:"omitempty,min=1,max=500"`
	FourYear       *bool      `json:"four_year"`
	TwoYear        *bool      `json:"two_year"`
	Apprenticeship *bool      `json:"apprenticeship"`
	Undecided      *bool      `json:"undecided"`
	DueDate        *time.Time `json:"due_date"`
	ReNotify       *bool      `json:"re_notify"`
	Position       *int       `json:"position" validate:"omitempty,min=0"`
}
