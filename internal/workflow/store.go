package workflow

import (
	"context"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
)

// Store is the transaction-scoped view of the entity store. Lookups
// return an error wrapping ErrNotFound when the entity is absent.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreateProject(ctx context.Context, p *models.Project) error
	// GetProjectForUpdate locks the project row for the duration of the
	// transaction so racing transitions serialize.
	GetProjectForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateStep(ctx context.Context, s *models.ProjectStep) error
	// ListSteps returns a project's steps ordered by step_number descending.
	ListSteps(ctx context.Context, projectID uuid.UUID) ([]models.ProjectStep, error)
	GetStep(ctx context.Context, projectID uuid.UUID, stepNumber int) (*models.ProjectStep, error)
	UpdateStep(ctx context.Context, s *models.ProjectStep) error
	DeleteSteps(ctx context.Context, projectID uuid.UUID) error
	UserAssignedToProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error)

	CreateAction(ctx context.Context, a *models.WorkflowAction) error
	CreateAsset(ctx context.Context, a *models.ProjectAsset) error
	NextAssetVersion(ctx context.Context, projectID uuid.UUID, filename string) (int, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// TxRunner executes fn inside a single transaction. If fn returns an
// error every write made through the Store rolls back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Store) error) error
}
