package service

import (
	"context"
	"errors"
	"testing"

	"crm-notification-service/internal/domain/entity"

	"github.com/google/uuid"
)

func newAction(listID, prospectID, userID uuid.UUID, field, oldValue, newValue string) *entity.ProspectAction {
	return &entity.ProspectAction{
		ListID:     listID,
		ProspectID: prospectID,
		UserID:     userID,
		Kind:       entity.ActionKindUpdate,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
}

func TestRecordValidation(t *testing.T) {
	svc := NewActionLogService(&memActionRepo{})

	cases := []*entity.ProspectAction{
		newAction(uuid.Nil, uuid.New(), uuid.New(), "status", "new", "contacted"),
		newAction(uuid.New(), uuid.Nil, uuid.New(), "status", "new", "contacted"),
		newAction(uuid.New(), uuid.New(), uuid.New(), "", "new", "contacted"),
	}
	for i, action := range cases {
		if err := svc.Record(context.Background(), action); !errors.Is(err, entity.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	repo := &memActionRepo{}
	svc := NewActionLogService(repo)

	action := newAction(uuid.New(), uuid.New(), uuid.New(), "status", "new", "contacted")
	if err := svc.Record(context.Background(), action); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.ID == uuid.Nil {
		t.Fatalf("expected an id to be assigned")
	}
	if action.CreatedAt.IsZero() {
		t.Fatalf("expected a timestamp to be assigned")
	}
	if action.Undone {
		t.Fatalf("new entries must start applied")
	}
	if len(repo.actions) != 1 {
		t.Fatalf("expected 1 entry in the log, got %d", len(repo.actions))
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	repo := &memActionRepo{}
	svc := NewActionLogService(repo)

	listID := uuid.New()
	prospectID := uuid.New()
	userID := uuid.New()

	first := newAction(listID, prospectID, userID, "status", "new", "contacted")
	second := newAction(listID, prospectID, userID, "status", "contacted", "qualified")
	if err := svc.Record(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Record(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Undo targets the newest applied entry.
	undone, err := svc.Undo(context.Background(), listID, prospectID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if undone.ID != second.ID {
		t.Fatalf("expected the newest entry to be undone")
	}
	if !undone.Undone {
		t.Fatalf("returned entry must carry the flipped flag")
	}
	if field, value := undone.Inverse(); field != "status" || value != "contacted" {
		t.Fatalf("inverse should restore the old value, got %s=%s", field, value)
	}

	// A second undo walks back to the first entry.
	undone, err = svc.Undo(context.Background(), listID, prospectID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if undone.ID != first.ID {
		t.Fatalf("expected the older entry on the second undo")
	}

	// Both entries are now undone and the prospect sits in its pre-first
	// state; the only consistent redo is the entry undone last, which
	// replays the changes in their original order.
	redone, err := svc.Redo(context.Background(), listID, prospectID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redone.ID != first.ID {
		t.Fatalf("expected the entry undone last to be redone first")
	}
	if redone.Undone {
		t.Fatalf("redone entry must be applied again")
	}
	if redone.Field != "status" || redone.NewValue != "contacted" {
		t.Fatalf("redo from the initial state must re-apply %q, got %q", "contacted", redone.NewValue)
	}

	redone, err = svc.Redo(context.Background(), listID, prospectID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redone.ID != second.ID {
		t.Fatalf("expected the second redo to replay the newer entry")
	}
	if redone.NewValue != "qualified" {
		t.Fatalf("second redo must re-apply %q, got %q", "qualified", redone.NewValue)
	}

	// The log still holds both entries; nothing was rewritten.
	history, err := svc.History(context.Background(), listID, prospectID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(history))
	}
}

func TestUndoEmptyLog(t *testing.T) {
	svc := NewActionLogService(&memActionRepo{})

	_, err := svc.Undo(context.Background(), uuid.New(), uuid.New(), uuid.New())
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedoWithoutUndo(t *testing.T) {
	repo := &memActionRepo{}
	svc := NewActionLogService(repo)

	listID := uuid.New()
	prospectID := uuid.New()
	userID := uuid.New()

	if err := svc.Record(context.Background(), newAction(listID, prospectID, userID, "status", "new", "contacted")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Redo(context.Background(), listID, prospectID, userID)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when nothing is undone, got %v", err)
	}
}

func TestUndoRejectsOtherUsers(t *testing.T) {
	repo := &memActionRepo{}
	svc := NewActionLogService(repo)

	listID := uuid.New()
	prospectID := uuid.New()
	owner := uuid.New()

	if err := svc.Record(context.Background(), newAction(listID, prospectID, owner, "status", "new", "contacted")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Undo(context.Background(), listID, prospectID, uuid.New())
	if !errors.Is(err, entity.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestHistoryScopedToCaller(t *testing.T) {
	repo := &memActionRepo{}
	svc := NewActionLogService(repo)

	listID := uuid.New()
	prospectID := uuid.New()
	caller := uuid.New()

	if err := svc.Record(context.Background(), newAction(listID, prospectID, caller, "status", "new", "contacted")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Record(context.Background(), newAction(listID, prospectID, uuid.New(), "status", "contacted", "lost")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err := svc.History(context.Background(), listID, prospectID, caller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected only the caller's entries, got %d", len(history))
	}
	if history[0].UserID != caller {
		t.Fatalf("history leaked another user's entry")
	}
}
