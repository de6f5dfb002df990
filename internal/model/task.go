package model

import (
	"time"

	"gorm.io/gorm"
)

// DefaultStatus is assigned to tasks created without an explicit status.
const DefaultStatus = "To Do"

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Task is a unit of work assigned to a user by username.
//
// UpdatedAt is owned by the tasks_touch_updated_at trigger, so GORM never
// writes it on update.
type Task struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Title      string     `json:"title" gorm:"size:255;not null"`
	AssignedTo string     `json:"assigned_to" gorm:"size:150;not null;index"`
	Status     string     `json:"status" gorm:"size:100;not null;default:'To Do';index"`
	DueDate    *time.Time `json:"due_date,omitempty" gorm:"type:date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// BeforeCreate stamps UpdatedAt for the initial insert.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = DefaultStatus
	}
	return nil
}

// DueDateString formats DueDate as YYYY-MM-DD, or "" when unset.
func (t *Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}
