package workflow_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/workflow"
)

// fakeStore is an in-memory Store and TxRunner. InTx snapshots the maps
// before running fn and restores them when fn fails, mirroring a
// transaction rollback.
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]models.User
	projects      map[uuid.UUID]models.Project
	steps         map[uuid.UUID]models.ProjectStep
	actions       []models.WorkflowAction
	assets        []models.ProjectAsset
	notifications []models.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]models.User),
		projects: make(map[uuid.UUID]models.Project),
		steps:    make(map[uuid.UUID]models.ProjectStep),
	}
}

func (f *fakeStore) addUser(name string) uuid.UUID {
	id := uuid.New()
	f.users[id] = models.User{
		ID:       id,
		Username: name,
		Email:    name + "@example.com",
		FullName: name,
		IsActive: true,
	}
	return id
}

func (f *fakeStore) snapshot() *fakeStore {
	s := &fakeStore{
		users:         make(map[uuid.UUID]models.User, len(f.users)),
		projects:      make(map[uuid.UUID]models.Project, len(f.projects)),
		steps:         make(map[uuid.UUID]models.ProjectStep, len(f.steps)),
		actions:       append([]models.WorkflowAction(nil), f.actions...),
		assets:        append([]models.ProjectAsset(nil), f.assets...),
		notifications: append([]models.Notification(nil), f.notifications...),
	}
	for k, v := range f.users {
		s.users[k] = v
	}
	for k, v := range f.projects {
		s.projects[k] = v
	}
	for k, v := range f.steps {
		s.steps[k] = v
	}
	return s
}

func (f *fakeStore) restore(s *fakeStore) {
	f.users = s.users
	f.projects = s.projects
	f.steps = s.steps
	f.actions = s.actions
	f.assets = s.assets
	f.notifications = s.notifications
}

func (f *fakeStore) InTx(ctx context.Context, fn func(workflow.Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(saved)
		return err
	}
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", workflow.ErrNotFound)
	}
	return &u, nil
}

func (f *fakeStore) CreateProject(_ context.Context, p *models.Project) error {
	f.projects[p.ID] = *p
	return nil
}

func (f *fakeStore) GetProjectForUpdate(_ context.Context, id uuid.UUID) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("project: %w", workflow.ErrNotFound)
	}
	return &p, nil
}

func (f *fakeStore) UpdateProject(_ context.Context, p *models.Project) error {
	if _, ok := f.projects[p.ID]; !ok {
		return fmt.Errorf("project: %w", workflow.ErrNotFound)
	}
	f.projects[p.ID] = *p
	return nil
}

func (f *fakeStore) DeleteProject(_ context.Context, id uuid.UUID) error {
	delete(f.projects, id)
	for stepID, s := range f.steps {
		if s.ProjectID == id {
			delete(f.steps, stepID)
		}
	}
	return nil
}

func (f *fakeStore) CreateStep(_ context.Context, s *models.ProjectStep) error {
	f.steps[s.ID] = *s
	return nil
}

func (f *fakeStore) ListSteps(_ context.Context, projectID uuid.UUID) ([]models.ProjectStep, error) {
	var out []models.ProjectStep
	for _, s := range f.steps {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepNumber > out[j].StepNumber })
	return out, nil
}

func (f *fakeStore) GetStep(_ context.Context, projectID uuid.UUID, stepNumber int) (*models.ProjectStep, error) {
	for _, s := range f.steps {
		if s.ProjectID == projectID && s.StepNumber == stepNumber {
			step := s
			return &step, nil
		}
	}
	return nil, fmt.Errorf("step: %w", workflow.ErrNotFound)
}

func (f *fakeStore) UpdateStep(_ context.Context, s *models.ProjectStep) error {
	if _, ok := f.steps[s.ID]; !ok {
		return fmt.Errorf("step: %w", workflow.ErrNotFound)
	}
	f.steps[s.ID] = *s
	return nil
}

func (f *fakeStore) DeleteSteps(_ context.Context, projectID uuid.UUID) error {
	for id, s := range f.steps {
		if s.ProjectID == projectID {
			delete(f.steps, id)
		}
	}
	return nil
}

func (f *fakeStore) UserAssignedToProject(_ context.Context, projectID, userID uuid.UUID) (bool, error) {
	for _, s := range f.steps {
		if s.ProjectID == projectID && s.AssigneeID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateAction(_ context.Context, a *models.WorkflowAction) error {
	f.actions = append(f.actions, *a)
	return nil
}

func (f *fakeStore) CreateAsset(_ context.Context, a *models.ProjectAsset) error {
	f.assets = append(f.assets, *a)
	return nil
}

func (f *fakeStore) NextAssetVersion(_ context.Context, projectID uuid.UUID, filename string) (int, error) {
	max := 0
	for _, a := range f.assets {
		if a.ProjectID == projectID && a.Filename == filename && a.Version > max {
			max = a.Version
		}
	}
	return max + 1, nil
}

func (f *fakeStore) CreateNotification(_ context.Context, n *models.Notification) error {
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeStore) stepByNumber(projectID uuid.UUID, number int) models.ProjectStep {
	for _, s := range f.steps {
		if s.ProjectID == projectID && s.StepNumber == number {
			return s
		}
	}
	return models.ProjectStep{}
}

func (f *fakeStore) lastAction() models.WorkflowAction {
	return f.actions[len(f.actions)-1]
}

func (f *fakeStore) lastNotification() models.Notification {
	return f.notifications[len(f.notifications)-1]
}
