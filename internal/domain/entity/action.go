package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind represents the kind of prospect edit recorded in the action log
type ActionKind string

const (
	ActionKindCreate ActionKind = "create"
	ActionKindUpdate ActionKind = "update"
	ActionKindDelete ActionKind = "delete"
)

// ProspectAction is one entry of the append-only prospect edit log.
// Undo and redo never rewrite entries; they only flip the Undone flag.
type ProspectAction struct {
	ID         uuid.UUID
	ListID     uuid.UUID
	ProspectID uuid.UUID
	UserID     uuid.UUID
	Kind       ActionKind
	Field      string
	OldValue   string
	NewValue   string
	Undone     bool
	CreatedAt  time.Time
}

// Inverse returns the change that reverts this action: the recorded field
// set back to its old value.
func (a *ProspectAction) Inverse() (field, value string) {
	return a.Field, a.OldValue
}
