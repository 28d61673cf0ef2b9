package entity

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Task represents a CRM task assigned to a user
type Task struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Status    TaskStatus
	DueAt     *time.Time
	CreatedAt time.Time
	// UpdatedAt tracks the last status change; forgotten-task staleness
	// is measured from it.
	UpdatedAt time.Time
}

// IsCompleted reports whether the task is done
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusDone
}
