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

const projectColumns = `id, name, description, owner_id, status, current_step_number, created_at, updated_at`

func (q *queries) CreateProject(ctx context.Context, p *models.Project) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, owner_id, status, current_step_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Name, p.Description, p.OwnerID, p.Status, p.CurrentStepNumber, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (q *queries) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return q.scanProject(q.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1
	`, id))
}

// GetProjectForUpdate locks the project row so concurrent transitions on
// the same project serialize; the loser re-reads the updated state and
// fails its precondition instead of double-applying.
func (q *queries) GetProjectForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return q.scanProject(q.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1
		FOR UPDATE
	`, id))
}

func (q *queries) UpdateProject(ctx context.Context, p *models.Project) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE projects
		SET name = $1, description = $2, status = $3, current_step_number = $4, updated_at = $5
		WHERE id = $6
	`, p.Name, p.Description, p.Status, p.CurrentStepNumber, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (q *queries) DeleteProject(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, `
		DELETE FROM projects
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListProjectsForUser returns projects the user owns or is assigned to
// on any step, newest first.
func (q *queries) ListProjectsForUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.name, p.description, p.owner_id, p.status, p.current_step_number, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN project_steps s ON s.project_id = p.id
		WHERE p.owner_id = $1 OR s.assignee_id = $1
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Status, &p.CurrentStepNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (q *queries) scanProject(row *sql.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Status, &p.CurrentStepNumber, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project: %w", workflow.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}
