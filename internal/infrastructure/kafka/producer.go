package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crm-notification-service/internal/config"
	"crm-notification-service/internal/domain/entity"

	"github.com/segmentio/kafka-go"
)

// notificationCreatedEvent is the wire shape published for realtime consumers
type notificationCreatedEvent struct {
	EventID        string                  `json:"event_id"`
	NotificationID string                  `json:"notification_id"`
	UserID         string                  `json:"user_id"`
	Type           entity.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Priority       entity.Priority         `json:"priority"`
	CreatedAt      time.Time               `json:"created_at"`
}

// Producer publishes notification events to Kafka
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}

	return &Producer{writer: writer}
}

// PublishNotificationCreated publishes a created notification, keyed by
// user so one user's notifications stay ordered
func (p *Producer) PublishNotificationCreated(ctx context.Context, notification *entity.Notification) error {
	event := notificationCreatedEvent{
		EventID:        notification.ID.String(),
		NotificationID: notification.ID.String(),
		UserID:         notification.UserID.String(),
		Type:           notification.Type,
		Title:          notification.Title,
		Message:        notification.Message,
		Priority:       notification.Priority,
		CreatedAt:      notification.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
