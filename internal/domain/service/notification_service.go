package service

import (
	"context"
	"time"

	"crm-notification-service/internal/domain/entity"

	"github.com/google/uuid"
)

// NotificationService defines the read-state operations on a user's notifications
type NotificationService interface {
	// List retrieves the caller's notifications with optional filters and sorting
	List(ctx context.Context, userID uuid.UUID, filter entity.NotificationFilter, sort entity.NotificationSort) ([]*entity.Notification, error)

	// MarkRead marks one notification read; entity.ErrNotOwner when the
	// caller does not own it
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error

	// MarkAllRead marks all of the caller's notifications read and returns
	// how many changed
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	// Delete removes one notification; same ownership semantics as MarkRead
	Delete(ctx context.Context, notificationID, userID uuid.UUID) error

	// CreateTest creates a notification of the given type for the caller,
	// for end-to-end verification of the delivery path
	CreateTest(ctx context.Context, userID uuid.UUID, notificationType entity.NotificationType) (*entity.Notification, error)
}

// RuleEvaluator detects rows whose state should produce a notification
type RuleEvaluator interface {
	Name() string
	Evaluate(ctx context.Context, now time.Time) ([]entity.TriggerEvent, error)
}

// TriggerEngine runs every rule evaluator once and aggregates the outcome
type TriggerEngine interface {
	Run(ctx context.Context, now time.Time) *entity.RunSummary
}

// ReminderService delivers reminder emails for upcoming bookings
type ReminderService interface {
	SendUpcoming(ctx context.Context, now time.Time) *entity.ReminderRunResult
}

// ReminderMailer sends a single booking reminder email
type ReminderMailer interface {
	SendBookingReminder(ctx context.Context, booking *entity.Booking) error
}

// EventPublisher fans created notifications out to realtime consumers
type EventPublisher interface {
	PublishNotificationCreated(ctx context.Context, notification *entity.Notification) error
}

// ActionLogService records prospect edits and resolves undo/redo over the log
type ActionLogService interface {
	// Record appends an edit to the log
	Record(ctx context.Context, action *entity.ProspectAction) error

	// Undo flips the newest applied entry and returns it; callers apply
	// its Inverse to the prospect row
	Undo(ctx context.Context, listID, prospectID, userID uuid.UUID) (*entity.ProspectAction, error)

	// Redo flips the entry undone last back to applied and returns it, so
	// repeated redos replay changes in their original order
	Redo(ctx context.Context, listID, prospectID, userID uuid.UUID) (*entity.ProspectAction, error)

	// History lists a prospect's log entries, newest first
	History(ctx context.Context, listID, prospectID, userID uuid.UUID) ([]*entity.ProspectAction, error)
}
