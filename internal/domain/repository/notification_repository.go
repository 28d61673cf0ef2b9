package repository

import (
	"context"
	"time"

	"crm-notification-service/internal/domain/entity"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create inserts a notification. Returns entity.ErrDuplicate when an
	// unread notification for the same (user, type, source) already exists;
	// the unique constraint makes the dedup race a handled conflict.
	Create(ctx context.Context, notification *entity.Notification) error

	// GetByID retrieves a notification regardless of owner
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)

	// FindUnreadByTrigger retrieves the unread notification for a
	// (user, type, source) tuple, or entity.ErrNotFound
	FindUnreadByTrigger(ctx context.Context, userID uuid.UUID, notificationType entity.NotificationType, sourceID uuid.UUID) (*entity.Notification, error)

	// List retrieves a user's notifications with optional filters and sorting
	List(ctx context.Context, userID uuid.UUID, filter entity.NotificationFilter, sort entity.NotificationSort) ([]*entity.Notification, error)

	// MarkRead sets is_read = true for a notification owned by userID
	MarkRead(ctx context.Context, id, userID uuid.UUID) error

	// MarkAllRead sets is_read = true for all of a user's unread
	// notifications and returns how many rows changed
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	// Delete removes a notification owned by userID
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// TaskRepository exposes the task reads the rule evaluators need
type TaskRepository interface {
	// FindDueBetween retrieves incomplete tasks with due_at in [from, to)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*entity.Task, error)

	// FindOverdue retrieves incomplete tasks with due_at before now
	FindOverdue(ctx context.Context, now time.Time) ([]*entity.Task, error)

	// FindStale retrieves incomplete tasks with no status change since the cutoff
	FindStale(ctx context.Context, cutoff time.Time) ([]*entity.Task, error)
}

// ProspectRepository exposes the prospect reads the rule evaluators need
type ProspectRepository interface {
	// FindFollowUpBetween retrieves prospects with follow_up_at in [from, to)
	FindFollowUpBetween(ctx context.Context, from, to time.Time) ([]*entity.Prospect, error)

	// FindFollowUpOverdue retrieves prospects with follow_up_at before now
	FindFollowUpOverdue(ctx context.Context, now time.Time) ([]*entity.Prospect, error)
}

// ProjectRepository exposes the project reads the rule evaluators need
type ProjectRepository interface {
	// FindDeadlineBetween retrieves open projects with deadline in [from, to)
	FindDeadlineBetween(ctx context.Context, from, to time.Time) ([]*entity.Project, error)

	// FindDeadlinePassed retrieves open projects with deadline before now
	FindDeadlinePassed(ctx context.Context, now time.Time) ([]*entity.Project, error)
}

// BookingRepository exposes booking reads and reminder bookkeeping
type BookingRepository interface {
	// FindUpcomingWithoutReminder retrieves bookings starting in [from, to)
	// whose reminder has not been sent yet
	FindUpcomingWithoutReminder(ctx context.Context, from, to time.Time) ([]*entity.Booking, error)

	// MarkReminderSent flags a booking's reminder as sent
	MarkReminderSent(ctx context.Context, bookingID uuid.UUID) error
}
