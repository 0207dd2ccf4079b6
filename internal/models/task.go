package models

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// TaskPriority ranks a task.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityLow    TaskPriority = "Low"
)

// Task is a to-do item owned by a user.
type Task struct {
	Base
	UserID      uint         `gorm:"not null;index:idx_tasks_user_start,priority:1" json:"user_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `gorm:"size:20;not null;default:'To Do'" json:"status"`
	Priority    TaskPriority `gorm:"size:10;not null;default:'Medium'" json:"priority"`
	StartDate   time.Time    `gorm:"not null;index:idx_tasks_user_start,priority:2" json:"start_date"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	NotifyAt    *time.Time   `json:"notify_at,omitempty"`
}
