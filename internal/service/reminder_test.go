package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm-notification-service/internal/domain/entity"

	"github.com/google/uuid"
)

func newReminderFactory() (*NotificationFactory, *memNotificationRepo) {
	repo := &memNotificationRepo{}
	return NewNotificationFactory(repo, nil, 0), repo
}

func newBooking(startsAt time.Time, email string) *entity.Booking {
	return &entity.Booking{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ClientName:  "Client",
		ClientEmail: email,
		StartsAt:    startsAt,
	}
}

func TestSendUpcomingPartialFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := newBooking(now.Add(10*time.Minute), "a@example.com")
	second := newBooking(now.Add(20*time.Minute), "b@example.com")
	third := newBooking(now.Add(30*time.Minute), "c@example.com")

	bookings := &stubBookingRepo{Bookings: []*entity.Booking{first, second, third}}
	mailer := &stubMailer{FailFor: map[uuid.UUID]error{second.ID: errors.New("smtp timeout")}}

	factory, _ := newReminderFactory()
	svc := NewReminderService(bookings, mailer, factory, time.Hour)
	result := svc.SendUpcoming(context.Background(), now)

	if result.TotalProcessed != 3 {
		t.Fatalf("expected 3 processed, got %d", result.TotalProcessed)
	}
	if result.Success {
		t.Fatalf("run with a failed reminder must not report success")
	}
	if len(result.Results) != 3 {
		t.Fatalf("expected 3 per-booking results, got %d", len(result.Results))
	}
	if result.Results[0].Status != entity.ReminderStatusSuccess ||
		result.Results[1].Status != entity.ReminderStatusError ||
		result.Results[2].Status != entity.ReminderStatusSuccess {
		t.Fatalf("unexpected per-booking statuses: %+v", result.Results)
	}

	// Only the delivered reminders may be marked sent.
	if len(bookings.MarkedSent) != 2 {
		t.Fatalf("expected 2 bookings marked sent, got %d", len(bookings.MarkedSent))
	}
	for _, id := range bookings.MarkedSent {
		if id == second.ID {
			t.Fatalf("failed booking must not be marked sent")
		}
	}
}

func TestSendUpcomingCreatesInAppNotification(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	booking := newBooking(now.Add(30*time.Minute), "client@example.com")
	bookings := &stubBookingRepo{Bookings: []*entity.Booking{booking}}
	mailer := &stubMailer{}
	factory, repo := newReminderFactory()

	result := NewReminderService(bookings, mailer, factory, time.Hour).SendUpcoming(context.Background(), now)

	if !result.Success {
		t.Fatalf("expected a successful run, got %+v", result)
	}
	if repo.count() != 1 {
		t.Fatalf("expected one in-app notification, got %d", repo.count())
	}

	n := repo.notifications[0]
	if n.Type != entity.NotificationTypeBookingUpcoming {
		t.Fatalf("expected type %s, got %s", entity.NotificationTypeBookingUpcoming, n.Type)
	}
	if n.UserID != booking.UserID {
		t.Fatalf("notification must target the booking's owner")
	}
	if n.SourceID == nil || *n.SourceID != booking.ID {
		t.Fatalf("notification must reference the booking")
	}
}

func TestSendUpcomingNotificationFailureKeepsDelivery(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	booking := newBooking(now.Add(30*time.Minute), "client@example.com")
	bookings := &stubBookingRepo{Bookings: []*entity.Booking{booking}}
	mailer := &stubMailer{}

	repo := &memNotificationRepo{CreateErr: errors.New("insert failed")}
	factory := NewNotificationFactory(repo, nil, 0)

	result := NewReminderService(bookings, mailer, factory, time.Hour).SendUpcoming(context.Background(), now)

	// The email went out and the reminder was marked; losing the in-app
	// copy must not fail the booking.
	if !result.Success {
		t.Fatalf("expected a successful run, got %+v", result)
	}
	if len(bookings.MarkedSent) != 1 || bookings.MarkedSent[0] != booking.ID {
		t.Fatalf("expected booking marked sent, got %v", bookings.MarkedSent)
	}
}

func TestSendUpcomingHonorsLeadWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	within := newBooking(now.Add(30*time.Minute), "in@example.com")
	atBound := newBooking(now.Add(time.Hour), "bound@example.com")
	beyond := newBooking(now.Add(2*time.Hour), "out@example.com")

	bookings := &stubBookingRepo{Bookings: []*entity.Booking{within, atBound, beyond}}
	mailer := &stubMailer{}

	factory, _ := newReminderFactory()
	result := NewReminderService(bookings, mailer, factory, time.Hour).SendUpcoming(context.Background(), now)

	if result.TotalProcessed != 1 {
		t.Fatalf("expected only the booking inside the lead window, got %d", result.TotalProcessed)
	}
	if len(mailer.Sent) != 1 || mailer.Sent[0] != within.ID {
		t.Fatalf("expected reminder for the in-window booking only")
	}
}

func TestSendUpcomingSkipsAlreadyReminded(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	reminded := newBooking(now.Add(30*time.Minute), "done@example.com")
	reminded.ReminderSent = true

	bookings := &stubBookingRepo{Bookings: []*entity.Booking{reminded}}
	mailer := &stubMailer{}

	factory, _ := newReminderFactory()
	result := NewReminderService(bookings, mailer, factory, time.Hour).SendUpcoming(context.Background(), now)

	if result.TotalProcessed != 0 {
		t.Fatalf("expected no bookings processed, got %d", result.TotalProcessed)
	}
	if !result.Success {
		t.Fatalf("empty run must report success")
	}
}

func TestSendUpcomingMissingClientEmail(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	noEmail := newBooking(now.Add(30*time.Minute), "")
	bookings := &stubBookingRepo{Bookings: []*entity.Booking{noEmail}}
	mailer := &stubMailer{}

	factory, _ := newReminderFactory()
	result := NewReminderService(bookings, mailer, factory, time.Hour).SendUpcoming(context.Background(), now)

	if result.Success {
		t.Fatalf("expected failure for a booking without a client email")
	}
	if result.Results[0].Status != entity.ReminderStatusError {
		t.Fatalf("expected error status, got %s", result.Results[0].Status)
	}
	if len(bookings.MarkedSent) != 0 {
		t.Fatalf("booking without email must not be marked sent")
	}
}

func TestSendUpcomingQueryFailure(t *testing.T) {
	bookings := &stubBookingRepo{FindErr: errors.New("connection refused")}

	factory, _ := newReminderFactory()
	result := NewReminderService(bookings, &stubMailer{}, factory, time.Hour).SendUpcoming(context.Background(), time.Now())

	if result.Success {
		t.Fatalf("expected failure when the booking query errors")
	}
	if result.TotalProcessed != 0 {
		t.Fatalf("expected no bookings processed, got %d", result.TotalProcessed)
	}
}
