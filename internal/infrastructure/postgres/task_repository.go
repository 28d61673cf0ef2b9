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

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new PostgreSQL task repository
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, status, due_at, created_at, updated_at`

func (r *taskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status <> 'done' AND due_at >= $1 AND due_at < $2
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query due tasks")
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *taskRepository) FindOverdue(ctx context.Context, now time.Time) ([]*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status <> 'done' AND due_at IS NOT NULL AND due_at < $1
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query overdue tasks")
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *taskRepository) FindStale(ctx context.Context, cutoff time.Time) ([]*entity.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status <> 'done' AND updated_at < $1
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query stale tasks")
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]*entity.Task, error) {
	var tasks []*entity.Task
	for rows.Next() {
		task := &entity.Task{}
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Status,
			&task.DueAt, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan task")
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
