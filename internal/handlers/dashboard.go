package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"newsflow-backend/internal/database"
	"newsflow-backend/internal/models"
)

type DashboardHandler struct {
	db *database.Client
}

func NewDashboardHandler(db *database.Client) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// GetStats returns the caller's dashboard counters.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.db.GetDashboardStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load dashboard stats", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.DashboardStatsResponse{
		TotalProjects:       stats.TotalProjects,
		ActiveProjects:      stats.ActiveProjects,
		CompletedProjects:   stats.CompletedProjects,
		MyPendingTasks:      stats.MyPendingTasks,
		UnreadNotifications: stats.UnreadNotifications,
	})
}
