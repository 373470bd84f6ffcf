package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
)

// DashboardStats summarizes the caller's workload for the dashboard.
type DashboardStats struct {
	TotalProjects       int
	ActiveProjects      int
	CompletedProjects   int
	MyPendingTasks      int
	UnreadNotifications int
}

func (q *queries) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := q.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM (
			SELECT DISTINCT p.id, p.status
			FROM projects p
			LEFT JOIN project_steps s ON s.project_id = p.id
			WHERE p.owner_id = $1 OR s.assignee_id = $1
		) member_projects
	`, userID, models.ProjectInProgress, models.ProjectCompleted).Scan(
		&stats.TotalProjects, &stats.ActiveProjects, &stats.CompletedProjects,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	if stats.MyPendingTasks, err = q.CountPendingTasks(ctx, userID); err != nil {
		return nil, err
	}
	if stats.UnreadNotifications, err = q.CountUnreadNotifications(ctx, userID); err != nil {
		return nil, err
	}
	return stats, nil
}
