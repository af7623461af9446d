package models

import "time"

// TaskStatus is the two-value task state.
type TaskStatus string

const (
	// TaskStatusPending marks a task that is not done yet.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusCompleted marks a finished task.
	TaskStatusCompleted TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the two accepted statuses.
func ValidTaskStatus(s TaskStatus) bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// Task is a user to-do item.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"task_id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     string     `json:"due_date"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
