package model

import "time"

// Tag is a user-scoped label attached to tasks via @name or #name markers.
type Tag struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index:idx_user_tag_name,unique"`
	Name      string `gorm:"index:idx_user_tag_name,unique"`
	CreatedAt time.Time
	Tasks     []Task `gorm:"many2many:task_tags"`
}
