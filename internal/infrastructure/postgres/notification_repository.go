package postgres

import (
	"context"
	"fmt"
	"strings"

	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
// The notifications table carries a partial unique index on
// (user_id, type, source_id) WHERE is_read = false, so a concurrent
// duplicate insert surfaces as a conflict instead of a second row.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `
	id, user_id, type, title, message, data, source_id,
	priority, is_read, created_at, expires_at, action_url, action_label
`

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		notification.ID, notification.UserID, notification.Type,
		notification.Title, notification.Message, notification.Data, notification.SourceID,
		notification.Priority, notification.IsRead, notification.CreatedAt,
		notification.ExpiresAt, notification.ActionURL, notification.ActionLabel,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.ErrDuplicate
		}
		return errors.Wrap(err, "failed to create notification")
	}

	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	notification, err := r.scanOne(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get notification")
	}

	return notification, nil
}

func (r *notificationRepository) FindUnreadByTrigger(ctx context.Context, userID uuid.UUID, notificationType entity.NotificationType, sourceID uuid.UUID) (*entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND type = $2 AND source_id = $3 AND is_read = false
		LIMIT 1
	`

	notification, err := r.scanOne(r.pool.QueryRow(ctx, query, userID, notificationType, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find unread notification")
	}

	return notification, nil
}

func (r *notificationRepository) List(ctx context.Context, userID uuid.UUID, filter entity.NotificationFilter, sort entity.NotificationSort) ([]*entity.Notification, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`)

	args := []interface{}{userID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		fmt.Fprintf(&sb, " AND type = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		fmt.Fprintf(&sb, " AND priority = $%d", len(args))
	}
	if filter.IsRead != nil {
		args = append(args, *filter.IsRead)
		fmt.Fprintf(&sb, " AND is_read = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&sb, " AND created_at <= $%d", len(args))
	}

	sb.WriteString(" ORDER BY ")
	switch sort.Field {
	case entity.SortByPriority:
		// Rank priorities by urgency, not alphabetically.
		sb.WriteString(`CASE priority
			WHEN 'urgent' THEN 4
			WHEN 'high' THEN 3
			WHEN 'medium' THEN 2
			ELSE 1
		END`)
	case entity.SortByType:
		sb.WriteString("type")
	default:
		sb.WriteString("created_at")
	}
	if sort.Ascending {
		sb.WriteString(" ASC")
	} else {
		sb.WriteString(" DESC")
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		notification, err := r.scanOne(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan notification")
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, userID); err != nil {
		return errors.Wrap(err, "failed to mark notification read")
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark all notifications read")
	}

	return tag.RowsAffected(), nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, userID); err != nil {
		return errors.Wrap(err, "failed to delete notification")
	}

	return nil
}

func (r *notificationRepository) scanOne(row pgx.Row) (*entity.Notification, error) {
	notification := &entity.Notification{}
	err := row.Scan(
		&notification.ID, &notification.UserID, &notification.Type,
		&notification.Title, &notification.Message, &notification.Data, &notification.SourceID,
		&notification.Priority, &notification.IsRead, &notification.CreatedAt,
		&notification.ExpiresAt, &notification.ActionURL, &notification.ActionLabel,
	)
	if err != nil {
		return nil, err
	}
	return notification, nil
}
