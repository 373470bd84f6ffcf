package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"newsflow-backend/internal/database"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/notify"
	"newsflow-backend/internal/workflow"
)

type ProjectsHandler struct {
	db        *database.Client
	engine    *workflow.Engine
	publisher notify.Publisher
}

func NewProjectsHandler(db *database.Client, engine *workflow.Engine, publisher notify.Publisher) *ProjectsHandler {
	return &ProjectsHandler{
		db:        db,
		engine:    engine,
		publisher: publisher,
	}
}

func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	res, err := h.engine.CreateProject(c.Request.Context(), userID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	publishNotifications(h.publisher, res)

	c.JSON(http.StatusCreated, projectResponse(res.Project, res.Steps))
}

// ListProjects returns projects the caller owns or is assigned to.
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.db.ListProjectsForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list projects", Message: err.Error()})
		return
	}

	responses := make([]models.ProjectResponse, 0, len(projects))
	for i := range projects {
		steps, err := h.db.ListSteps(c.Request.Context(), projects[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list steps", Message: err.Error()})
			return
		}
		responses = append(responses, projectResponse(&projects[i], steps))
	}

	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: responses})
}

func (h *ProjectsHandler) GetProject(c *gin.Context) {
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

	steps, err := h.db.ListSteps(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list steps", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, projectResponse(project, steps))
}

func (h *ProjectsHandler) EditProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	var req models.EditProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	res, err := h.engine.EditProject(c.Request.Context(), userID, projectID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, projectResponse(res.Project, res.Steps))
}

func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	if err := h.engine.DeleteProject(c.Request.Context(), userID, projectID); err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "project deleted successfully"})
}
