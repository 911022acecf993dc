package models

import (
	"time"
)

// ChecklistItem is one user's completion record for one master task.
// The (user, task) pair is unique; the provisioner checks for existing rows
// before inserting so re-provisioning never duplicates.
type ChecklistItem struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      string `json:"user_id" gorm:"size:255;not null;uniqueIndex:idx_checklist_items_user_task"`
	TaskID      uint   `json:"task_id" gorm:"not null;uniqueIndex:idx_checklist_items_user_task"`
	IsCompleted bool   `json:"is_completed" gorm:"default:false"`

	Task *MasterTask `json:"task,omitempty" gorm:"foreignKey:TaskID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChecklistItem) TableName() string {
	return "checklist_items"
}
