package postgres

import (
	"context"
	"time"

	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository creates a new PostgreSQL booking repository
func NewBookingRepository(pool *pgxpool.Pool) repository.BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) FindUpcomingWithoutReminder(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT id, user_id, client_name, client_email, starts_at, reminder_sent, created_at
		FROM bookings
		WHERE reminder_sent = false AND starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query upcoming bookings")
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking := &entity.Booking{}
		if err := rows.Scan(
			&booking.ID, &booking.UserID, &booking.ClientName, &booking.ClientEmail,
			&booking.StartsAt, &booking.ReminderSent, &booking.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan booking")
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) MarkReminderSent(ctx context.Context, bookingID uuid.UUID) error {
	query := `UPDATE bookings SET reminder_sent = true WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, bookingID); err != nil {
		return errors.Wrap(err, "failed to mark reminder sent")
	}

	return nil
}
