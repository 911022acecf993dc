package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskTrack string

const (
	TrackStudent   TaskTrack = "student"
	TrackCounselor TaskTrack = "counselor"
)

// MasterTask is one catalog entry: a single checklist line for a grade and
// month, with plan-eligibility flags deciding which students see it.
// Counselor-track tasks carry no month and no plan flags; they form one
// ungrouped set per catalog.
type MasterTask struct {
	ID    uint       `json:"id" gorm:"primaryKey"`
	Grade GradeLevel `json:"grade" gorm:"size:16;index:idx_master_tasks_grade_track"`
	Track TaskTrack  `json:"track" gorm:"size:16;index:idx_master_tasks_grade_track;default:'student'"`
	Month string     `json:"month" gorm:"size:16"`
	Text  string     `json:"task_text" gorm:"column:task_text;not null;size:500"`

	// Plan eligibility. A task may be flagged for any subset of plans.
	FourYear       bool `json:"four_year" gorm:"default:true"`
	TwoYear        bool `json:"two_year" gorm:"default:true"`
	Apprenticeship bool `json:"apprenticeship" gorm:"default:true"`
	Undecided      bool `json:"undecided" gorm:"default:true"`

	// Reminder metadata used by the due-soon notification passes.
	DueDate  *time.Time `json:"due_date" gorm:"index"`
	ReNotify bool       `json:"re_notify" gorm:"default:false"`

	// Position keeps the catalog's authoring order stable within a month.
	Position int `json:"position" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (MasterTask) TableName() string {
	return "checklist_master_tasks"
}

// EligibleFor reports whether the task's plan flags admit the given plan.
// Unrecognized plans match everything, per the provisioning contract.
func (t *MasterTask) EligibleFor(plan CollegePlan) bool {
	switch plan {
	case PlanFourYear:
		return t.FourYear
	case PlanTwoYear:
		return t.TwoYear
	case PlanApprenticeship:
		return t.Apprenticeship
	case PlanUndecided, PlanNotApplicable:
		return t.Undecided
	default:
		return true
	}
}
