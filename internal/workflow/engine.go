package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"newsflow-backend/internal/models"
)

// Engine owns the step state machine. Every operation runs as one
// transaction: entity mutations, the audit row and any notifications
// commit together or not at all.
type Engine struct {
	db TxRunner
}

func NewEngine(db TxRunner) *Engine {
	return &Engine{db: db}
}

// Result carries the post-transition state back to the API layer. The
// notifications have already been persisted; they are exposed so the
// caller can push them to realtime channels after commit.
type Result struct {
	Project       *models.Project
	Steps         []models.ProjectStep
	Notifications []models.Notification
}

func (e *Engine) CreateProject(ctx context.Context, ownerID uuid.UUID, req models.CreateProjectRequest) (*Result, error) {
	if err := validateSteps(req.Steps); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ProjectName) == "" {
		return nil, fmt.Errorf("%w: project_name is required", ErrValidation)
	}

	var res *Result
	err := e.db.InTx(ctx, func(s Store) error {
		for _, in := range req.Steps {
			if _, err := s.GetUser(ctx, in.AssignedUserID); err != nil {
				return fmt.Errorf("assigned user %s: %w", in.AssignedUserID, err)
			}
		}

		now := time.Now().UTC()
		maxNumber := maxStepNumber(req.Steps)
		project := &models.Project{
			ID:                uuid.New(),
			Name:              req.ProjectName,
			Description:       req.Description,
			OwnerID:           ownerID,
			Status:            models.ProjectInProgress,
			CurrentStepNumber: sql.NullInt64{Int64: int64(maxNumber), Valid: true},
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.CreateProject(ctx, project); err != nil {
			return err
		}

		var firstStep models.ProjectStep
		for _, in := range req.Steps {
			step := models.ProjectStep{
				ID:              uuid.New(),
				ProjectID:       project.ID,
				StepNumber:      in.StepNumber,
				Name:            in.StepName,
				TaskDescription: in.TaskDescription,
				AssigneeID:      in.AssignedUserID,
				Status:          models.StepPending,
				CreatedAt:       now,
			}
			if in.StepNumber == maxNumber {
				step.Status = models.StepInProgress
				firstStep = step
			}
			if err := s.CreateStep(ctx, &step); err != nil {
				return err
			}
		}

		if err := s.CreateAction(ctx, &models.WorkflowAction{
			ID:        uuid.New(),
			ProjectID: project.ID,
			UserID:    ownerID,
			Action:    models.ActionCreate,
			Comment:   sql.NullString{String: "Project created", Valid: true},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		notif := models.Notification{
			ID:        uuid.New(),
			UserID:    firstStep.AssigneeID,
			ProjectID: uuid.NullUUID{UUID: project.ID, Valid: true},
			Message: fmt.Sprintf("New project assigned: %s. You are at Step %d: %s",
				project.Name, firstStep.StepNumber, firstStep.Name),
			CreatedAt: now,
		}
		if err := s.CreateNotification(ctx, &notif); err != nil {
			return err
		}

		var err error
		res, err = assemble(ctx, s, project, notif)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) EditProject(ctx context.Context, actorID, projectID uuid.UUID, req models.EditProjectRequest) (*Result, error) {
	if req.Steps != nil {
		if err := validateSteps(*req.Steps); err != nil {
			return nil, err
		}
	}

	var res *Result
	err := e.db.InTx(ctx, func(s Store) error {
		project, err := s.GetProjectForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if !IsOwner(actorID, project) {
			return fmt.Errorf("%w: only the project owner can edit", ErrForbidden)
		}

		if req.ProjectName != nil {
			project.Name = *req.ProjectName
		}
		if req.Description != nil {
			project.Description = *req.Description
		}

		now := time.Now().UTC()
		if req.Steps != nil {
			for _, in := range *req.Steps {
				if _, err := s.GetUser(ctx, in.AssignedUserID); err != nil {
					return fmt.Errorf("assigned user %s: %w", in.AssignedUserID, err)
				}
			}
			// Replacing the step set restarts the workflow at the new
			// maximum step, even for completed projects. Audit rows keep
			// a nulled reference to the deleted steps.
			if err := s.DeleteSteps(ctx, projectID); err != nil {
				return err
			}
			maxNumber := maxStepNumber(*req.Steps)
			for _, in := range *req.Steps {
				step := models.ProjectStep{
					ID:              uuid.New(),
					ProjectID:       projectID,
					StepNumber:      in.StepNumber,
					Name:            in.StepName,
					TaskDescription: in.TaskDescription,
					AssigneeID:      in.AssignedUserID,
					Status:          models.StepPending,
					CreatedAt:       now,
				}
				if in.StepNumber == maxNumber {
					step.Status = models.StepInProgress
				}
				if err := s.CreateStep(ctx, &step); err != nil {
					return err
				}
			}
			project.CurrentStepNumber = sql.NullInt64{Int64: int64(maxNumber), Valid: true}
			project.Status = models.ProjectInProgress
		}

		project.UpdatedAt = now
		if err := s.UpdateProject(ctx, project); err != nil {
			return err
		}

		if err := s.CreateAction(ctx, &models.WorkflowAction{
			ID:        uuid.New(),
			ProjectID: projectID,
			UserID:    actorID,
			Action:    models.ActionEdit,
			Comment:   sql.NullString{String: "Project edited", Valid: true},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		// Edits deliberately notify nobody, unlike create/forward.
		res, err = assemble(ctx, s, project)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) DeleteProject(ctx context.Context, actorID, projectID uuid.UUID) error {
	return e.db.InTx(ctx, func(s Store) error {
		project, err := s.GetProjectForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if !IsOwner(actorID, project) {
			return fmt.Errorf("%w: only the project owner can delete", ErrForbidden)
		}
		// Cascade removes steps, actions and assets. Notifications keep
		// a nulled project reference.
		return s.DeleteProject(ctx, projectID)
	})
}

func (e *Engine) Forward(ctx context.Context, actorID, projectID uuid.UUID, comment string) (*Result, error) {
	var res *Result
	err := e.db.InTx(ctx, func(s Store) error {
		project, current, err := lockCurrentStep(ctx, s, projectID, actorID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		current.Status = models.StepCompleted
		current.CompletedAt = sql.NullTime{Time: now, Valid: true}
		if err := s.UpdateStep(ctx, current); err != nil {
			return err
		}

		steps, err := s.ListSteps(ctx, projectID)
		if err != nil {
			return err
		}
		next := nextStep(steps, current.StepNumber)

		action := models.WorkflowAction{
			ID:         uuid.New(),
			ProjectID:  projectID,
			StepID:     uuid.NullUUID{UUID: current.ID, Valid: true},
			UserID:     actorID,
			StepNumber: sql.NullInt64{Int64: int64(current.StepNumber), Valid: true},
			CreatedAt:  now,
		}
		if comment != "" {
			action.Comment = sql.NullString{String: comment, Valid: true}
		}

		var notif models.Notification
		if next != nil {
			next.Status = models.StepInProgress
			if err := s.UpdateStep(ctx, next); err != nil {
				return err
			}
			project.CurrentStepNumber = sql.NullInt64{Int64: int64(next.StepNumber), Valid: true}
			action.Action = models.ActionForward
			notif = models.Notification{
				ID:        uuid.New(),
				UserID:    next.AssigneeID,
				ProjectID: uuid.NullUUID{UUID: projectID, Valid: true},
				Message: fmt.Sprintf("Project forwarded to you: %s. Step %d: %s",
					project.Name, next.StepNumber, next.Name),
				CreatedAt: now,
			}
		} else {
			// The minimum-numbered step finished; the project is done.
			project.Status = models.ProjectCompleted
			project.CurrentStepNumber = sql.NullInt64{}
			action.Action = models.ActionComplete
			notif = models.Notification{
				ID:        uuid.New(),
				UserID:    project.OwnerID,
				ProjectID: uuid.NullUUID{UUID: projectID, Valid: true},
				Message:   fmt.Sprintf("Project completed: %s. All steps finished.", project.Name),
				CreatedAt: now,
			}
		}

		project.UpdatedAt = now
		if err := s.UpdateProject(ctx, project); err != nil {
			return err
		}
		if err := s.CreateAction(ctx, &action); err != nil {
			return err
		}
		if err := s.CreateNotification(ctx, &notif); err != nil {
			return err
		}

		res, err = assemble(ctx, s, project, notif)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Engine) SendBack(ctx context.Context, actorID, projectID uuid.UUID, comment string) (*Result, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: comments are required when sending back", ErrValidation)
	}

	var res *Result
	err := e.db.InTx(ctx, func(s Store) error {
		project, current, err := lockCurrentStep(ctx, s, projectID, actorID)
		if err != nil {
			return err
		}

		steps, err := s.ListSteps(ctx, projectID)
		if err != nil {
			return err
		}
		previous := previousStep(steps, current.StepNumber)
		if previous == nil {
			return fmt.Errorf("%w: no previous step to send back to", ErrInvalidState)
		}

		now := time.Now().UTC()
		current.Status = models.StepSentBack
		if err := s.UpdateStep(ctx, current); err != nil {
			return err
		}

		previous.Status = models.StepInProgress
		previous.CompletedAt = sql.NullTime{}
		if err := s.UpdateStep(ctx, previous); err != nil {
			return err
		}

		project.CurrentStepNumber = sql.NullInt64{Int64: int64(previous.StepNumber), Valid: true}
		project.UpdatedAt = now
		if err := s.UpdateProject(ctx, project); err != nil {
			return err
		}

		if err := s.CreateAction(ctx, &models.WorkflowAction{
			ID:         uuid.New(),
			ProjectID:  projectID,
			StepID:     uuid.NullUUID{UUID: current.ID, Valid: true},
			UserID:     actorID,
			Action:     models.ActionSendBack,
			StepNumber: sql.NullInt64{Int64: int64(current.StepNumber), Valid: true},
			Comment:    sql.NullString{String: comment, Valid: true},
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		notif := models.Notification{
			ID:        uuid.New(),
			UserID:    previous.AssigneeID,
			ProjectID: uuid.NullUUID{UUID: projectID, Valid: true},
			Message: fmt.Sprintf("Project sent back to you: %s. Step %d: %s. Reason: %s",
				project.Name, previous.StepNumber, previous.Name, comment),
			CreatedAt: now,
		}
		if err := s.CreateNotification(ctx, &notif); err != nil {
			return err
		}

		res, err = assemble(ctx, s, project, notif)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AttachAsset records an uploaded artifact. The bytes are already in
// the blob store under storageKey; this persists the reference and the
// upload audit row atomically.
func (e *Engine) AttachAsset(ctx context.Context, actorID, projectID uuid.UUID, assetType, filename, storageKey string, metadata json.RawMessage) (*models.ProjectAsset, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}
	if assetType == "" {
		assetType = "general"
	}

	var asset *models.ProjectAsset
	err := e.db.InTx(ctx, func(s Store) error {
		project, err := s.GetProjectForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		ok, err := CanView(ctx, s, actorID, project)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: not a member of this project", ErrForbidden)
		}

		version, err := s.NextAssetVersion(ctx, projectID, filename)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		asset = &models.ProjectAsset{
			ID:         uuid.New(),
			ProjectID:  projectID,
			UploadedBy: actorID,
			AssetType:  assetType,
			Filename:   filename,
			StorageKey: storageKey,
			Metadata:   metadata,
			Version:    version,
			UploadedAt: now,
		}
		if err := s.CreateAsset(ctx, asset); err != nil {
			return err
		}

		return s.CreateAction(ctx, &models.WorkflowAction{
			ID:        uuid.New(),
			ProjectID: projectID,
			UserID:    actorID,
			Action:    models.ActionUpload,
			Comment:   sql.NullString{String: "Uploaded " + filename, Valid: true},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// lockCurrentStep locks the project row and resolves its active step,
// enforcing the assignee gate shared by Forward and SendBack.
func lockCurrentStep(ctx context.Context, s Store, projectID, actorID uuid.UUID) (*models.Project, *models.ProjectStep, error) {
	project, err := s.GetProjectForUpdate(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if !project.CurrentStepNumber.Valid {
		return nil, nil, fmt.Errorf("%w: no active step", ErrInvalidState)
	}
	current, err := s.GetStep(ctx, projectID, int(project.CurrentStepNumber.Int64))
	if err != nil {
		return nil, nil, err
	}
	if current.AssigneeID != actorID {
		return nil, nil, fmt.Errorf("%w: you are not assigned to the current step", ErrForbidden)
	}
	return project, current, nil
}

func validateSteps(steps []models.StepInput) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrValidation)
	}
	seen := make(map[int]bool, len(steps))
	for _, in := range steps {
		if strings.TrimSpace(in.StepName) == "" || strings.TrimSpace(in.TaskDescription) == "" {
			return fmt.Errorf("%w: step %d is missing a name or task description", ErrValidation, in.StepNumber)
		}
		if in.AssignedUserID == uuid.Nil {
			return fmt.Errorf("%w: step %d has no assigned user", ErrValidation, in.StepNumber)
		}
		if seen[in.StepNumber] {
			return fmt.Errorf("%w: duplicate step number %d", ErrValidation, in.StepNumber)
		}
		seen[in.StepNumber] = true
	}
	return nil
}

func maxStepNumber(steps []models.StepInput) int {
	max := steps[0].StepNumber
	for _, in := range steps[1:] {
		if in.StepNumber > max {
			max = in.StepNumber
		}
	}
	return max
}

// nextStep is the step with the greatest number strictly below current.
func nextStep(steps []models.ProjectStep, current int) *models.ProjectStep {
	var next *models.ProjectStep
	for i := range steps {
		n := steps[i].StepNumber
		if n < current && (next == nil || n > next.StepNumber) {
			next = &steps[i]
		}
	}
	return next
}

// previousStep is the step with the smallest number strictly above
// current, i.e. the one that ran before it.
func previousStep(steps []models.ProjectStep, current int) *models.ProjectStep {
	var prev *models.ProjectStep
	for i := range steps {
		n := steps[i].StepNumber
		if n > current && (prev == nil || n < prev.StepNumber) {
			prev = &steps[i]
		}
	}
	return prev
}

func assemble(ctx context.Context, s Store, project *models.Project, notifs ...models.Notification) (*Result, error) {
	steps, err := s.ListSteps(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Project: project, Steps: steps, Notifications: notifs}, nil
}
