package postgres

import (
	"context"
	"time"

	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type prospectRepository struct {
	pool *pgxpool.Pool
}

// NewProspectRepository creates a new PostgreSQL prospect repository
func NewProspectRepository(pool *pgxpool.Pool) repository.ProspectRepository {
	return &prospectRepository{pool: pool}
}

const prospectColumns = `id, list_id, owner_id, name, status, follow_up_at, created_at, updated_at`

func (r *prospectRepository) FindFollowUpBetween(ctx context.Context, from, to time.Time) ([]*entity.Prospect, error) {
	query := `
		SELECT ` + prospectColumns + `
		FROM prospects
		WHERE follow_up_at >= $1 AND follow_up_at < $2
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query prospect follow-ups")
	}
	defer rows.Close()

	return scanProspects(rows)
}

func (r *prospectRepository) FindFollowUpOverdue(ctx context.Context, now time.Time) ([]*entity.Prospect, error) {
	query := `
		SELECT ` + prospectColumns + `
		FROM prospects
		WHERE follow_up_at IS NOT NULL AND follow_up_at < $1
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query overdue follow-ups")
	}
	defer rows.Close()

	return scanProspects(rows)
}

func scanProspects(rows pgx.Rows) ([]*entity.Prospect, error) {
	var prospects []*entity.Prospect
	for rows.Next() {
		prospect := &entity.Prospect{}
		if err := rows.Scan(
			&prospect.ID, &prospect.ListID, &prospect.OwnerID, &prospect.Name,
			&prospect.Status, &prospect.FollowUpAt, &prospect.CreatedAt, &prospect.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan prospect")
		}
		prospects = append(prospects, prospect)
	}
	return prospects, rows.Err()
}
