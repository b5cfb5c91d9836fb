package dto

import "time"

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=20"`
	Description string `json:"description" binding:"max=400"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=20"`
	Description *string `json:"description" binding:"omitempty,max=400"`
}

type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AvatarPath  *string   `json:"avatar_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

// AvatarResponse returns the storage key of an uploaded avatar.
type AvatarResponse struct {
	AvatarPath string `json:"avatar_path"`
}

// PredictResponse carries the classifier's top label for a task avatar.
type PredictResponse struct {
	PredictedClass string `json:"predicted_class"`
}
