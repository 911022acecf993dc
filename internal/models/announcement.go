package models

import "time"

// Announcement is a broadcast message shown on the notification screen and
// in the home-screen slider.
type Announcement struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Content  string  `json:"content" gorm:"not null;size:1000"`
	Category *string `json:"category" gorm:"size:64"`
	Link     *string `json:"link" gorm:"size:500"`
	AuthorID string  `json:"author_id" gorm:"size:64;index"`

	CreatedAt time.Time `json:"created_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}
