package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"newsflow-backend/internal/database"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/workflow"
)

type ActionsHandler struct {
	db *database.Client
}

func NewActionsHandler(db *database.Client) *ActionsHandler {
	return &ActionsHandler{db: db}
}

// GetActions returns the project's audit trail, newest first.
func (h *ActionsHandler) GetActions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	project, err := h.db.GetProject(c.Request.Context(), projectID)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	canView, err := workflow.CanView(c.Request.Context(), h.db, userID, project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to check access", Message: err.Error()})
		return
	}
	if !canView {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
		return
	}

	actions, err := h.db.ListActions(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list actions", Message: err.Error()})
		return
	}

	responses := make([]models.ActionResponse, len(actions))
	for i := range actions {
		responses[i] = actionResponse(&actions[i])
	}
	c.JSON(http.StatusOK, models.ActionListResponse{Actions: responses})
}
