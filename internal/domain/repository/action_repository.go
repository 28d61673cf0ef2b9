package repository

import (
	"context"

	"crm-notification-service/internal/domain/entity"

	"github.com/google/uuid"
)

// ActionRepository defines the interface for the append-only prospect action log
type ActionRepository interface {
	// Append records a new action log entry
	Append(ctx context.Context, action *entity.ProspectAction) error

	// History retrieves all entries for a prospect, newest first
	History(ctx context.Context, listID, prospectID uuid.UUID) ([]*entity.ProspectAction, error)

	// LatestApplied retrieves the newest entry with undone = false,
	// or entity.ErrNotFound
	LatestApplied(ctx context.Context, listID, prospectID uuid.UUID) (*entity.ProspectAction, error)

	// LatestUndone retrieves the entry undone most recently, which by the
	// backwards walk of undo is the oldest entry with undone = true,
	// or entity.ErrNotFound
	LatestUndone(ctx context.Context, listID, prospectID uuid.UUID) (*entity.ProspectAction, error)

	// SetUndone flips the undone flag on one entry
	SetUndone(ctx context.Context, actionID uuid.UUID, undone bool) error
}
