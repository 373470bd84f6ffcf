package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Audit action kinds.
const (
	ActionCreate   = "create"
	ActionEdit     = "edit"
	ActionDelete   = "delete"
	ActionForward  = "forward"
	ActionSendBack = "send_back"
	ActionComplete = "complete"
	ActionUpload   = "upload"
)

// WorkflowAction is an append-only audit record. StepID survives step
// replacement as a nulled reference.
type WorkflowAction struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	StepID     uuid.NullUUID
	UserID     uuid.UUID
	Action     string
	StepNumber sql.NullInt64
	Comment    sql.NullString
	CreatedAt  time.Time
}
