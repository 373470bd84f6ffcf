package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/workflow"
)

func (q *queries) CreateStep(ctx context.Context, s *models.ProjectStep) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO project_steps (id, project_id, step_number, name, task_description, assignee_id, status, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.ProjectID, s.StepNumber, s.Name, s.TaskDescription, s.AssigneeID, s.Status, s.CompletedAt, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create step: %w", err)
	}
	return nil
}

// ListSteps returns a project's steps in execution order (step_number
// descending: higher numbers run first).
func (q *queries) ListSteps(ctx context.Context, projectID uuid.UUID) ([]models.ProjectStep, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, project_id, step_number, name, task_description, assignee_id, status, completed_at, created_at
		FROM project_steps
		WHERE project_id = $1
		ORDER BY step_number DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []models.ProjectStep
	for rows.Next() {
		var s models.ProjectStep
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.StepNumber, &s.Name, &s.TaskDescription, &s.AssigneeID, &s.Status, &s.CompletedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func (q *queries) GetStep(ctx context.Context, projectID uuid.UUID, stepNumber int) (*models.ProjectStep, error) {
	var s models.ProjectStep
	err := q.db.QueryRowContext(ctx, `
		SELECT id, project_id, step_number, name, task_description, assignee_id, status, completed_at, created_at
		FROM project_steps
		WHERE project_id = $1 AND step_number = $2
	`, projectID, stepNumber).Scan(&s.ID, &s.ProjectID, &s.StepNumber, &s.Name, &s.TaskDescription, &s.AssigneeID, &s.Status, &s.CompletedAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("step %d: %w", stepNumber, workflow.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return &s, nil
}

func (q *queries) UpdateStep(ctx context.Context, s *models.ProjectStep) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE project_steps
		SET status = $1, completed_at = $2
		WHERE id = $3
	`, s.Status, s.CompletedAt, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	return nil
}

func (q *queries) DeleteSteps(ctx context.Context, projectID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `
		DELETE FROM project_steps
		WHERE project_id = $1
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete steps: %w", err)
	}
	return nil
}

func (q *queries) UserAssignedToProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var assigned bool
	err := q.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_steps
			WHERE project_id = $1 AND assignee_id = $2
		)
	`, projectID, userID).Scan(&assigned)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return assigned, nil
}

// CountPendingTasks counts steps currently waiting on the user.
func (q *queries) CountPendingTasks(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM project_steps
		WHERE assignee_id = $1 AND status = $2
	`, userID, models.StepInProgress).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	return n, nil
}
