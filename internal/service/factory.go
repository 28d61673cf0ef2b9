package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"
	domainservice "crm-notification-service/internal/domain/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// notificationTemplate maps a notification type to its fixed presentation
type notificationTemplate struct {
	Priority    entity.Priority
	Title       string
	// Message is formatted with the event's display name (task title,
	// prospect name, project name, ...)
	Message     string
	ActionURL   string
	ActionLabel string
}

var notificationTemplates = map[entity.NotificationType]notificationTemplate{
	entity.NotificationTypeTaskAssigned: {
		Priority:    entity.PriorityHigh,
		Title:       "New task assigned",
		Message:     "You have been assigned the task %q",
		ActionURL:   "/tasks/%s",
		ActionLabel: "Open task",
	},
	entity.NotificationTypeTaskDueSoon: {
		Priority:    entity.PriorityMedium,
		Title:       "Task due soon",
		Message:     "The task %q is due within 24 hours",
		ActionURL:   "/tasks/%s",
		ActionLabel: "Open task",
	},
	entity.NotificationTypeTaskOverdue: {
		Priority:    entity.PriorityHigh,
		Title:       "Task overdue",
		Message:     "The task %q is past its due date",
		ActionURL:   "/tasks/%s",
		ActionLabel: "Open task",
	},
	entity.NotificationTypeProjectAssigned: {
		Priority:    entity.PriorityMedium,
		Title:       "Project assigned",
		Message:     "You have been added to the project %q",
		ActionURL:   "/projects/%s",
		ActionLabel: "Open project",
	},
	entity.NotificationTypeProspectListAssigned: {
		Priority:    entity.PriorityMedium,
		Title:       "Prospect list assigned",
		Message:     "The prospect list %q has been assigned to you",
		ActionURL:   "/prospects/lists/%s",
		ActionLabel: "Open list",
	},
	entity.NotificationTypeProspectFollowUpDue: {
		Priority:    entity.PriorityMedium,
		Title:       "Follow-up due",
		Message:     "A follow-up with %q is scheduled within 24 hours",
		ActionURL:   "/prospects/%s",
		ActionLabel: "Open prospect",
	},
	entity.NotificationTypeProspectFollowUpOverdue: {
		Priority:    entity.PriorityHigh,
		Title:       "Follow-up overdue",
		Message:     "The follow-up with %q is overdue",
		ActionURL:   "/prospects/%s",
		ActionLabel: "Open prospect",
	},
	entity.NotificationTypeForgottenTask: {
		Priority:    entity.PriorityLow,
		Title:       "Forgotten task",
		Message:     "The task %q has had no activity for a while",
		ActionURL:   "/tasks/%s",
		ActionLabel: "Open task",
	},
	entity.NotificationTypeDeadlineApproaching: {
		Priority:    entity.PriorityHigh,
		Title:       "Deadline approaching",
		Message:     "The project %q reaches its deadline within 24 hours",
		ActionURL:   "/projects/%s",
		ActionLabel: "Open project",
	},
	entity.NotificationTypeDeadlinePassed: {
		Priority:    entity.PriorityUrgent,
		Title:       "Deadline passed",
		Message:     "The project %q is past its deadline",
		ActionURL:   "/projects/%s",
		ActionLabel: "Open project",
	},
	entity.NotificationTypeBookingUpcoming: {
		Priority:    entity.PriorityMedium,
		Title:       "Upcoming appointment",
		Message:     "Your appointment with %q starts within the hour",
		ActionURL:   "/bookings/%s",
		ActionLabel: "Open booking",
	},
}

// NotificationFactory builds notification rows from trigger events,
// enforcing the at-most-one-unread-per-trigger contract.
type NotificationFactory struct {
	repo      repository.NotificationRepository
	publisher domainservice.EventPublisher
	ttl       time.Duration
}

// NewNotificationFactory creates a new notification factory. publisher may
// be nil when no event bus is configured. ttl of zero disables expiry.
func NewNotificationFactory(repo repository.NotificationRepository, publisher domainservice.EventPublisher, ttl time.Duration) *NotificationFactory {
	return &NotificationFactory{
		repo:      repo,
		publisher: publisher,
		ttl:       ttl,
	}
}

// Create builds and persists a notification for the event. It returns
// created=false when an unread notification for the same trigger already
// exists, either found up front or surfaced as an insert conflict.
func (f *NotificationFactory) Create(ctx context.Context, event entity.TriggerEvent) (bool, error) {
	if !event.Type.IsValid() {
		return false, fmt.Errorf("%w: unknown notification type %q", entity.ErrValidation, event.Type)
	}

	_, err := f.repo.FindUnreadByTrigger(ctx, event.UserID, event.Type, event.SourceID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return false, fmt.Errorf("failed to check for existing notification: %w", err)
	}

	notification := f.Build(event)

	if err := f.repo.Create(ctx, notification); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			// A concurrent run inserted first; the contract still holds.
			return false, nil
		}
		return false, fmt.Errorf("failed to create notification: %w", err)
	}

	if f.publisher != nil {
		if err := f.publisher.PublishNotificationCreated(ctx, notification); err != nil {
			logrus.Warnf("Failed to publish notification event for %s: %v", notification.ID, err)
		}
	}

	return true, nil
}

// Build constructs the notification body for an event without persisting it
func (f *NotificationFactory) Build(event entity.TriggerEvent) *entity.Notification {
	tmpl := notificationTemplates[event.Type]

	name := event.Context["title"]
	if name == "" {
		name = event.Context["name"]
	}

	data := make(map[string]string, len(event.Context)+1)
	for k, v := range event.Context {
		data[k] = v
	}
	data["source_id"] = event.SourceID.String()

	sourceID := event.SourceID
	actionURL := fmt.Sprintf(tmpl.ActionURL, event.SourceID)
	actionLabel := tmpl.ActionLabel

	notification := &entity.Notification{
		ID:          uuid.New(),
		UserID:      event.UserID,
		Type:        event.Type,
		Title:       tmpl.Title,
		Message:     fmt.Sprintf(tmpl.Message, name),
		Data:        data,
		SourceID:    &sourceID,
		Priority:    tmpl.Priority,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
		ActionURL:   &actionURL,
		ActionLabel: &actionLabel,
	}

	if f.ttl > 0 {
		expiresAt := notification.CreatedAt.Add(f.ttl)
		notification.ExpiresAt = &expiresAt
	}

	return notification
}
