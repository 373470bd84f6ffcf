package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"newsflow-backend/internal/auth"
	"newsflow-backend/internal/config"
	"newsflow-backend/internal/models"
)

const UserIDKey = "user_id"

// AuthMiddleware validates the Bearer token and stores the caller's
// user id in the request context. A token query parameter is accepted
// as a fallback so browsers can follow asset download links.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization header format"})
				c.Abort()
				return
			}
			tokenString = strings.TrimSpace(parts[1])
		} else {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization token"})
			c.Abort()
			return
		}

		userID, err := auth.VerifyToken(cfg.JWTSecret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid token", Message: err.Error()})
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID.String())
		c.Next()
	}
}
