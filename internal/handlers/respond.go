package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"newsflow-backend/internal/middleware"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/notify"
	"newsflow-backend/internal/workflow"
)

// currentUserID pulls the authenticated user id out of the request
// context. On failure it writes the response itself.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

// writeEngineError maps the workflow error taxonomy onto HTTP statuses.
func writeEngineError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, workflow.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, workflow.ErrInvalidState):
		status = http.StatusConflict
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}

// publishNotifications pushes freshly committed notifications to live
// clients. Failures are logged only; the rows are already persisted.
func publishNotifications(publisher notify.Publisher, res *workflow.Result) {
	for _, n := range res.Notifications {
		if err := publisher.NotificationCreated(n); err != nil {
			log.Printf("Failed to publish notification %s: %v", n.ID, err)
		}
	}
}

func userResponse(u *models.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func stepResponse(s *models.ProjectStep) models.StepResponse {
	resp := models.StepResponse{
		ID:              s.ID.String(),
		ProjectID:       s.ProjectID.String(),
		StepNumber:      s.StepNumber,
		StepName:        s.Name,
		TaskDescription: s.TaskDescription,
		AssignedUserID:  s.AssigneeID.String(),
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
	}
	if s.CompletedAt.Valid {
		t := s.CompletedAt.Time
		resp.CompletedAt = &t
	}
	return resp
}

func projectResponse(p *models.Project, steps []models.ProjectStep) models.ProjectResponse {
	resp := models.ProjectResponse{
		ID:          p.ID.String(),
		ProjectName: p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID.String(),
		Status:      p.Status,
		Steps:       make([]models.StepResponse, 0, len(steps)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CurrentStepNumber.Valid {
		n := p.CurrentStepNumber.Int64
		resp.CurrentStepNumber = &n
	}
	for i := range steps {
		resp.Steps = append(resp.Steps, stepResponse(&steps[i]))
	}
	return resp
}

func actionResponse(a *models.WorkflowAction) models.ActionResponse {
	resp := models.ActionResponse{
		ID:        a.ID.String(),
		ProjectID: a.ProjectID.String(),
		UserID:    a.UserID.String(),
		Action:    a.Action,
		Timestamp: a.CreatedAt,
	}
	if a.StepID.Valid {
		id := a.StepID.UUID.String()
		resp.StepID = &id
	}
	if a.StepNumber.Valid {
		n := a.StepNumber.Int64
		resp.StepNumber = &n
	}
	if a.Comment.Valid {
		resp.Comments = a.Comment.String
	}
	return resp
}

func assetResponse(a *models.ProjectAsset) models.AssetResponse {
	resp := models.AssetResponse{
		ID:         a.ID.String(),
		ProjectID:  a.ProjectID.String(),
		UploadedBy: a.UploadedBy.String(),
		AssetType:  a.AssetType,
		Filename:   a.Filename,
		StorageKey: a.StorageKey,
		Version:    a.Version,
		UploadedAt: a.UploadedAt,
	}
	if len(a.Metadata) > 0 {
		var metadata map[string]interface{}
		if err := json.Unmarshal(a.Metadata, &metadata); err == nil {
			resp.Metadata = metadata
		}
	}
	return resp
}

func notificationResponse(n *models.Notification) models.NotificationResponse {
	resp := models.NotificationResponse{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.ProjectID.Valid {
		id := n.ProjectID.UUID.String()
		resp.ProjectID = &id
	}
	return resp
}
