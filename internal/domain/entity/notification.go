package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeTaskAssigned            NotificationType = "task_assigned"
	NotificationTypeTaskDueSoon             NotificationType = "task_due_soon"
	NotificationTypeTaskOverdue             NotificationType = "task_overdue"
	NotificationTypeProjectAssigned         NotificationType = "project_assigned"
	NotificationTypeProspectListAssigned    NotificationType = "prospect_list_assigned"
	NotificationTypeProspectFollowUpDue     NotificationType = "prospect_followup_due"
	NotificationTypeProspectFollowUpOverdue NotificationType = "prospect_followup_overdue"
	NotificationTypeForgottenTask           NotificationType = "forgotten_task"
	NotificationTypeDeadlineApproaching     NotificationType = "deadline_approaching"
	NotificationTypeDeadlinePassed          NotificationType = "deadline_passed"
	NotificationTypeBookingUpcoming         NotificationType = "booking_upcoming"
)

// IsValid reports whether t is one of the known notification types
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeTaskAssigned, NotificationTypeTaskDueSoon, NotificationTypeTaskOverdue,
		NotificationTypeProjectAssigned, NotificationTypeProspectListAssigned,
		NotificationTypeProspectFollowUpDue, NotificationTypeProspectFollowUpOverdue,
		NotificationTypeForgottenTask, NotificationTypeDeadlineApproaching, NotificationTypeDeadlinePassed,
		NotificationTypeBookingUpcoming:
		return true
	}
	return false
}

// Priority represents the urgency of a notification
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns the priority as a sortable integer (higher is more urgent)
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Notification represents a user-facing notification.
// Immutable after creation except for IsRead and deletion.
type Notification struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]string
	SourceID    *uuid.UUID
	Priority    Priority
	IsRead      bool
	CreatedAt   time.Time
	ExpiresAt   *time.Time
	ActionURL   *string
	ActionLabel *string
}

// IsExpired reports whether the notification is past its expiry, if any
func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// TriggerEvent is an (entity, condition) pair detected by a rule evaluator
// that may produce a notification.
type TriggerEvent struct {
	UserID   uuid.UUID
	Type     NotificationType
	SourceID uuid.UUID
	Context  map[string]string
}

// NotificationSortField selects the column notifications are ordered by
type NotificationSortField string

const (
	SortByCreatedAt NotificationSortField = "created_at"
	SortByPriority  NotificationSortField = "priority"
	SortByType      NotificationSortField = "type"
)

// NotificationFilter narrows a notification listing. Nil fields are ignored.
type NotificationFilter struct {
	Type     *NotificationType
	Priority *Priority
	IsRead   *bool
	From     *time.Time
	To       *time.Time
}

// NotificationSort describes listing order. Zero value means created_at descending.
type NotificationSort struct {
	Field     NotificationSortField
	Ascending bool
}
