package postgres

import (
	"context"

	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type actionRepository struct {
	pool *pgxpool.Pool
}

// NewActionRepository creates a new PostgreSQL action log repository
func NewActionRepository(pool *pgxpool.Pool) repository.ActionRepository {
	return &actionRepository{pool: pool}
}

const actionColumns = `id, list_id, prospect_id, user_id, kind, field, old_value, new_value, undone, created_at`

func (r *actionRepository) Append(ctx context.Context, action *entity.ProspectAction) error {
	query := `
		INSERT INTO prospect_actions (` + actionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		action.ID, action.ListID, action.ProspectID, action.UserID,
		action.Kind, action.Field, action.OldValue, action.NewValue,
		action.Undone, action.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to append action")
	}

	return nil
}

func (r *actionRepository) History(ctx context.Context, listID, prospectID uuid.UUID) ([]*entity.ProspectAction, error) {
	query := `
		SELECT ` + actionColumns + `
		FROM prospect_actions
		WHERE list_id = $1 AND prospect_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, listID, prospectID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query action history")
	}
	defer rows.Close()

	var actions []*entity.ProspectAction
	for rows.Next() {
		action := &entity.ProspectAction{}
		if err := scanAction(rows, action); err != nil {
			return nil, errors.Wrap(err, "failed to scan action")
		}
		actions = append(actions, action)
	}

	return actions, rows.Err()
}

func (r *actionRepository) LatestApplied(ctx context.Context, listID, prospectID uuid.UUID) (*entity.ProspectAction, error) {
	return r.pick(ctx, listID, prospectID, false, "DESC")
}

// LatestUndone returns the entry undone most recently. Undo walks the log
// backwards, so that is the oldest undone entry by creation time.
func (r *actionRepository) LatestUndone(ctx context.Context, listID, prospectID uuid.UUID) (*entity.ProspectAction, error) {
	return r.pick(ctx, listID, prospectID, true, "ASC")
}

func (r *actionRepository) pick(ctx context.Context, listID, prospectID uuid.UUID, undone bool, order string) (*entity.ProspectAction, error) {
	query := `
		SELECT ` + actionColumns + `
		FROM prospect_actions
		WHERE list_id = $1 AND prospect_id = $2 AND undone = $3
		ORDER BY created_at ` + order + `
		LIMIT 1
	`

	action := &entity.ProspectAction{}
	err := scanAction(r.pool.QueryRow(ctx, query, listID, prospectID, undone), action)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get latest action")
	}

	return action, nil
}

func (r *actionRepository) SetUndone(ctx context.Context, actionID uuid.UUID, undone bool) error {
	query := `UPDATE prospect_actions SET undone = $1 WHERE id = $2`

	if _, err := r.pool.Exec(ctx, query, undone, actionID); err != nil {
		return errors.Wrap(err, "failed to update action")
	}

	return nil
}

func scanAction(row pgx.Row, action *entity.ProspectAction) error {
	return row.Scan(
		&action.ID, &action.ListID, &action.ProspectID, &action.UserID,
		&action.Kind, &action.Field, &action.OldValue, &action.NewValue,
		&action.Undone, &action.CreatedAt,
	)
}
