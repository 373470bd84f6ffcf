package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Project lifecycle statuses.
const (
	ProjectInProgress = "In Progress"
	ProjectCompleted  = "Completed"
	ProjectCancelled  = "Cancelled"
)

// Step statuses. Step numbers run high-to-low: work starts at the
// highest number and finishes at the lowest.
const (
	StepPending    = "Pending"
	StepInProgress = "In Progress"
	StepCompleted  = "Completed"
	StepSentBack   = "Sent Back"
)

type Project struct {
	ID                uuid.UUID
	Name              string
	Description       string
	OwnerID           uuid.UUID
	Status            string
	CurrentStepNumber sql.NullInt64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ProjectStep struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	StepNumber      int
	Name            string
	TaskDescription string
	AssigneeID      uuid.UUID
	Status          string
	CompletedAt     sql.NullTime
	CreatedAt       time.Time
}
