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

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new PostgreSQL project repository
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, owner_id, name, deadline, completed, created_at`

func (r *projectRepository) FindDeadlineBetween(ctx context.Context, from, to time.Time) ([]*entity.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE completed = false AND deadline >= $1 AND deadline < $2
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query approaching deadlines")
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (r *projectRepository) FindDeadlinePassed(ctx context.Context, now time.Time) ([]*entity.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE completed = false AND deadline IS NOT NULL AND deadline < $1
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query passed deadlines")
	}
	defer rows.Close()

	return scanProjects(rows)
}

func scanProjects(rows pgx.Rows) ([]*entity.Project, error) {
	var projects []*entity.Project
	for rows.Next() {
		project := &entity.Project{}
		if err := rows.Scan(
			&project.ID, &project.OwnerID, &project.Name,
			&project.Deadline, &project.Completed, &project.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan project")
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
