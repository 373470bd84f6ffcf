package workflow

import (
	"context"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
)

// Membership resolves step assignments. Store satisfies it; read-side
// callers outside a transaction can pass something smaller.
type Membership interface {
	UserAssignedToProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

// IsOwner reports whether user owns the project. Edit and delete are
// owner-only.
func IsOwner(userID uuid.UUID, p *models.Project) bool {
	return p.OwnerID == userID
}

// IsCurrentAssignee reports whether user is assigned to the project's
// active step. Forward and send-back are assignee-only.
func IsCurrentAssignee(ctx context.Context, s Store, userID uuid.UUID, p *models.Project) (bool, error) {
	if !p.CurrentStepNumber.Valid {
		return false, nil
	}
	step, err := s.GetStep(ctx, p.ID, int(p.CurrentStepNumber.Int64))
	if err != nil {
		return false, err
	}
	return step.AssigneeID == userID, nil
}

// CanView reports whether user may read the project: the owner, or
// anyone assigned to any of its steps, current or not.
func CanView(ctx context.Context, s Membership, userID uuid.UUID, p *models.Project) (bool, error) {
	if IsOwner(userID, p) {
		return true, nil
	}
	return s.UserAssignedToProject(ctx, p.ID, userID)
}
