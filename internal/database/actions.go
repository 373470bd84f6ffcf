package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
)

func (q *queries) CreateAction(ctx context.Context, a *models.WorkflowAction) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO workflow_actions (id, project_id, step_id, user_id, action, step_number, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.ProjectID, a.StepID, a.UserID, a.Action, a.StepNumber, a.Comment, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

// ListActions returns a project's audit trail, newest first. Ties on the
// timestamp keep insertion order via the serial position column.
func (q *queries) ListActions(ctx context.Context, projectID uuid.UUID) ([]models.WorkflowAction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, project_id, step_id, user_id, action, step_number, comment, created_at
		FROM workflow_actions
		WHERE project_id = $1
		ORDER BY created_at DESC, position DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var actions []models.WorkflowAction
	for rows.Next() {
		var a models.WorkflowAction
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.StepID, &a.UserID, &a.Action, &a.StepNumber, &a.Comment, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
