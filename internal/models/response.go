package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type StepResponse struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	StepNumber      int        `json:"step_number"`
	StepName        string     `json:"step_name"`
	TaskDescription string     `json:"task_description"`
	AssignedUserID  string     `json:"assigned_user_id"`
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ProjectResponse is the full projection returned by every workflow
// mutation. Steps are ordered by step_number descending.
type ProjectResponse struct {
	ID                string         `json:"id"`
	ProjectName       string         `json:"project_name"`
	Description       string         `json:"description"`
	OwnerID           string         `json:"owner_id"`
	Status            string         `json:"status"`
	CurrentStepNumber *int64         `json:"current_step_number"`
	Steps             []StepResponse `json:"steps"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type ActionResponse struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	StepID     *string   `json:"step_id,omitempty"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	StepNumber *int64    `json:"step_number,omitempty"`
	Comments   string    `json:"comments,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type ActionListResponse struct {
	Actions []ActionResponse `json:"actions"`
}

type AssetResponse struct {
	ID         string                 `json:"id"`
	ProjectID  string                 `json:"project_id"`
	UploadedBy string                 `json:"uploaded_by"`
	AssetType  string                 `json:"asset_type"`
	Filename   string                 `json:"filename"`
	StorageKey string                 `json:"storage_key"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Version    int                    `json:"version"`
	UploadedAt time.Time              `json:"uploaded_at"`
}

type AssetListResponse struct {
	Assets []AssetResponse `json:"assets"`
}

type UploadResponse struct {
	Assets []AssetResponse `json:"assets"`
	Errors []string        `json:"errors,omitempty"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProjectID *string   `json:"project_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

type DashboardStatsResponse struct {
	TotalProjects       int `json:"total_projects"`
	ActiveProjects      int `json:"active_projects"`
	CompletedProjects   int `json:"completed_projects"`
	MyPendingTasks      int `json:"my_pending_tasks"`
	UnreadNotifications int `json:"unread_notifications"`
}
