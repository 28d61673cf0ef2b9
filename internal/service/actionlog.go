package service

import (
	"context"
	"fmt"
	"time"

	"crm-notification-service/internal/domain/entity"
	"crm-notification-service/internal/domain/repository"
	domainservice "crm-notification-service/internal/domain/service"

	"github.com/google/uuid"
)

type actionLogService struct {
	repo repository.ActionRepository
}

// NewActionLogService creates the prospect action log service. The log is
// append-only; undo and redo only flip the undone flag on existing entries.
func NewActionLogService(repo repository.ActionRepository) domainservice.ActionLogService {
	return &actionLogService{repo: repo}
}

func (s *actionLogService) Record(ctx context.Context, action *entity.ProspectAction) error {
	if action.ProspectID == uuid.Nil {
		return fmt.Errorf("%w: prospectId is required", entity.ErrValidation)
	}
	if action.ListID == uuid.Nil {
		return fmt.Errorf("%w: listId is required", entity.ErrValidation)
	}
	if action.Field == "" {
		return fmt.Errorf("%w: field is required", entity.ErrValidation)
	}

	if action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	action.Undone = false
	action.CreatedAt = time.Now().UTC()

	if err := s.repo.Append(ctx, action); err != nil {
		return fmt.Errorf("failed to append action: %w", err)
	}

	return nil
}

// Undo marks the newest applied entry undone and returns it. The caller
// applies its Inverse to the prospect row; the log itself never mutates
// prospect state.
func (s *actionLogService) Undo(ctx context.Context, listID, prospectID, userID uuid.UUID) (*entity.ProspectAction, error) {
	action, err := s.repo.LatestApplied(ctx, listID, prospectID)
	if err != nil {
		return nil, err
	}
	if action.UserID != userID {
		return nil, entity.ErrNotOwner
	}

	if err := s.repo.SetUndone(ctx, action.ID, true); err != nil {
		return nil, fmt.Errorf("failed to undo action: %w", err)
	}

	action.Undone = true
	return action, nil
}

// Redo re-applies the entry undone last. Undo moves backwards through the
// log, so redo moves forwards again, replaying changes in creation order.
func (s *actionLogService) Redo(ctx context.Context, listID, prospectID, userID uuid.UUID) (*entity.ProspectAction, error) {
	action, err := s.repo.LatestUndone(ctx, listID, prospectID)
	if err != nil {
		return nil, err
	}
	if action.UserID != userID {
		return nil, entity.ErrNotOwner
	}

	if err := s.repo.SetUndone(ctx, action.ID, false); err != nil {
		return nil, fmt.Errorf("failed to redo action: %w", err)
	}

	action.Undone = false
	return action, nil
}

func (s *actionLogService) History(ctx context.Context, listID, prospectID, userID uuid.UUID) ([]*entity.ProspectAction, error) {
	actions, err := s.repo.History(ctx, listID, prospectID)
	if err != nil {
		return nil, err
	}

	// History is scoped to entries the caller recorded.
	filtered := actions[:0]
	for _, action := range actions {
		if action.UserID == userID {
			filtered = append(filtered, action)
		}
	}

	return filtered, nil
}
