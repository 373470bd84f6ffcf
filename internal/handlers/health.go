package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"newsflow-backend/internal/models"
)

// HealthHandler reports service liveness.
func HealthHandler(c *gin.Context) {
	response := models.HealthResponse{
		Status: "ok",
	}
	c.JSON(http.StatusOK, response)
}
