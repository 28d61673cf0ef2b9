package service

import (
	"context"
	"fmt"
	"time"

	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"
	domainservice "crm-notification-service/internal/domain/service"

	"github.com/sirupsen/logrus"
)

type reminderService struct {
	bookings repository.BookingRepository
	mailer   domainservice.ReminderMailer
	factory  *NotificationFactory
	lead     time.Duration
}

// NewReminderService creates the booking reminder service. lead is how far
// ahead of a booking's start the reminder goes out.
func NewReminderService(bookings repository.BookingRepository, mailer domainservice.ReminderMailer, factory *NotificationFactory, lead time.Duration) domainservice.ReminderService {
	return &reminderService{
		bookings: bookings,
		mailer:   mailer,
		factory:  factory,
		lead:     lead,
	}
}

// SendUpcoming delivers reminders for bookings starting within the lead
// window that have none sent yet. Each booking succeeds or fails on its own;
// one failure never blocks the rest.
func (s *reminderService) SendUpcoming(ctx context.Context, now time.Time) *entity.ReminderRunResult {
	result := &entity.ReminderRunResult{Success: true}

	bookings, err := s.bookings.FindUpcomingWithoutReminder(ctx, now, now.Add(s.lead))
	if err != nil {
		logrus.Errorf("Failed to query upcoming bookings: %v", err)
		result.Success = false
		return result
	}

	for _, booking := range bookings {
		result.TotalProcessed++

		if err := s.remind(ctx, booking); err != nil {
			logrus.Errorf("Reminder for booking %s failed: %v", booking.ID, err)
			result.Success = false
			result.Results = append(result.Results, entity.ReminderResult{
				BookingID: booking.ID,
				Status:    entity.ReminderStatusError,
				Message:   err.Error(),
			})
			continue
		}

		result.Results = append(result.Results, entity.ReminderResult{
			BookingID: booking.ID,
			Status:    entity.ReminderStatusSuccess,
			Message:   fmt.Sprintf("reminder sent to %s", booking.ClientEmail),
		})
	}

	return result
}

func (s *reminderService) remind(ctx context.Context, booking *entity.Booking) error {
	if booking.ClientEmail == "" {
		return fmt.Errorf("%w: booking has no client email", entity.ErrValidation)
	}

	if err := s.mailer.SendBookingReminder(ctx, booking); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	if err := s.bookings.MarkReminderSent(ctx, booking.ID); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	// In-app copy for the booking's owner. The email is already out and the
	// reminder marked, so a failure here only loses the in-app notification.
	_, err := s.factory.Create(ctx, entity.TriggerEvent{
		UserID:   booking.UserID,
		Type:     entity.NotificationTypeBookingUpcoming,
		SourceID: booking.ID,
		Context: map[string]string{
			"name":      booking.ClientName,
			"starts_at": booking.StartsAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		logrus.Warnf("Failed to create in-app reminder for booking %s: %v", booking.ID, err)
	}

	return nil
}
