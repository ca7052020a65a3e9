package model

import "time"

// Task is a single item in the to-do list. A task with IsRecurring set is a
// template: the scheduler expands its rule into concrete instances that point
// back to it through OriginalTaskID. Deleting a template does not cascade to
// instances already generated from it.
type Task struct {
	ID             uint  `gorm:"primaryKey"`
	UserID         uint  `gorm:"index"`
	OriginalTaskID *uint `gorm:"index;uniqueIndex:idx_template_occurrence"`
	Title          string
	Description    string
	DueDate        *time.Time `gorm:"uniqueIndex:idx_template_occurrence"`
	DueTime        *time.Time
	Priority       Priority
	IsCompleted    bool `gorm:"default:false"`
	IsRecurring    bool `gorm:"default:false"`
	RecurringRule  string // serialized recurrence rule, empty for one-off tasks
	CompletedAt    *time.Time
	Tags           []Tag `gorm:"many2many:task_tags"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsInstance reports whether the task was generated from a recurring template.
func (t *Task) IsInstance() bool {
	return t.OriginalTaskID != nil
}
