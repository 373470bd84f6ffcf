package models

import "github.com/google/uuid"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StepInput describes one step of the project chain. Higher step
// numbers execute first.
type StepInput struct {
	StepNumber      int       `json:"step_number"`
	StepName        string    `json:"step_name"`
	TaskDescription string    `json:"task_description"`
	AssignedUserID  uuid.UUID `json:"assigned_user_id"`
}

type CreateProjectRequest struct {
	ProjectName string      `json:"project_name"`
	Description string      `json:"description"`
	Steps       []StepInput `json:"steps"`
}

// EditProjectRequest patches a project. A nil Steps field leaves the
// step set alone; a non-nil one replaces it entirely.
type EditProjectRequest struct {
	ProjectName *string      `json:"project_name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Steps       *[]StepInput `json:"steps,omitempty"`
}

type ForwardRequest struct {
	Comments string `json:"comments,omitempty"`
}

type SendBackRequest struct {
	Comments string `json:"comments"`
}
