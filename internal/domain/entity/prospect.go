package entity

import (
	"time"

	"github.com/google/uuid"
)

// Prospect represents a sales prospect within a prospect list
type Prospect struct {
	ID     uuid.UUID
	ListID uuid.UUID
	// OwnerID is the user responsible for following up on this prospect
	OwnerID    uuid.UUID
	Name       string
	Status     string
	FollowUpAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Project represents a CRM project with an optional deadline
type Project struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Deadline  *time.Time
	Completed bool
	CreatedAt time.Time
}

// Booking represents a client appointment
type Booking struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ClientName   string
	ClientEmail  string
	StartsAt     time.Time
	ReminderSent bool
	CreatedAt    time.Time
}
