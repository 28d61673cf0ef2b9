package service

import (
	"context"
	"fmt"

	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"
	domainservice "crm-notification-service/internal/domain/service"

	"github.com/google/uuid"
)

type notificationService struct {
	repo    repository.NotificationRepository
	factory *NotificationFactory
}

// NewNotificationService creates the read-state service over a user's
// notifications
func NewNotificationService(repo repository.NotificationRepository, factory *NotificationFactory) domainservice.NotificationService {
	return &notificationService{
		repo:    repo,
		factory: factory,
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, filter entity.NotificationFilter, sort entity.NotificationSort) ([]*entity.Notification, error) {
	if sort.Field == "" {
		sort.Field = entity.SortByCreatedAt
	}
	return s.repo.List(ctx, userID, filter, sort)
}

// MarkRead marks one notification read. Marking an already-read
// notification is a no-op, so the operation is idempotent.
func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	if err := s.authorize(ctx, notificationID, userID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, notificationID, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, notificationID, userID uuid.UUID) error {
	if err := s.authorize(ctx, notificationID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, notificationID, userID)
}

func (s *notificationService) CreateTest(ctx context.Context, userID uuid.UUID, notificationType entity.NotificationType) (*entity.Notification, error) {
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("%w: unknown notification type %q", entity.ErrValidation, notificationType)
	}

	notification := s.factory.Build(entity.TriggerEvent{
		UserID:   userID,
		Type:     notificationType,
		SourceID: uuid.New(),
		Context:  map[string]string{"title": "Test notification"},
	})

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create test notification: %w", err)
	}

	return notification, nil
}

// authorize distinguishes a missing notification from one owned by another
// user, so handlers can answer 404 and 403 respectively
func (s *notificationService) authorize(ctx context.Context, notificationID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return entity.ErrNotOwner
	}
	return nil
}
