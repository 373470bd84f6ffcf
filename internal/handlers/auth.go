package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"newsflow-backend/internal/auth"
	"newsflow-backend/internal/config"
	"newsflow-backend/internal/database"
	"newsflow-backend/internal/models"
)

type AuthHandler struct {
	cfg *config.Config
	db  *database.Client
}

func NewAuthHandler(cfg *config.Config, db *database.Client) *AuthHandler {
	return &AuthHandler{cfg: cfg, db: db}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "missing required fields"})
		return
	}

	usernameTaken, emailTaken, err := h.db.UsernameOrEmailExists(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to register user", Message: err.Error()})
		return
	}
	if usernameTaken {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "username already exists"})
		return
	}
	if emailTaken {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "email already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to register user", Message: err.Error()})
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.db.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to register user", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, userResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "username and password required"})
		return
	}

	user, err := h.db.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// One answer for unknown user, wrong password and deactivated
		// accounts.
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	}

	token, err := auth.IssueToken(h.cfg.JWTSecret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to issue token", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token, User: userResponse(user)})
}

// ListUsers returns every active user except the caller, for assigning
// steps.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	users, err := h.db.ListActiveUsersExcept(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list users", Message: err.Error()})
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i := range users {
		responses[i] = userResponse(&users[i])
	}
	c.JSON(http.StatusOK, responses)
}
