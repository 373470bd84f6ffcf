package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/notify"
	"newsflow-backend/internal/workflow"
)

// TransitionsHandler exposes the forward/send-back workflow moves.
type TransitionsHandler struct {
	engine    *workflow.Engine
	publisher notify.Publisher
}

func NewTransitionsHandler(engine *workflow.Engine, publisher notify.Publisher) *TransitionsHandler {
	return &TransitionsHandler{engine: engine, publisher: publisher}
}

// Forward completes the current step and moves the project to the next
// lower step number, or completes the project when none remains.
func (h *TransitionsHandler) Forward(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	// The comment is optional on forward; an unreadable body is treated
	// as no comment.
	var req models.ForwardRequest
	_ = c.ShouldBindJSON(&req)

	res, err := h.engine.Forward(c.Request.Context(), userID, projectID, req.Comments)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	publishNotifications(h.publisher, res)

	c.JSON(http.StatusOK, projectResponse(res.Project, res.Steps))
}

// SendBack returns the project to the next higher step number for
// rework. A justification comment is mandatory.
func (h *TransitionsHandler) SendBack(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	var req models.SendBackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	res, err := h.engine.SendBack(c.Request.Context(), userID, projectID, req.Comments)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	publishNotifications(h.publisher, res)

	c.JSON(http.StatusOK, projectResponse(res.Project, res.Steps))
}
