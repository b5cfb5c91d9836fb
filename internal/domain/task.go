package domain

import "time"

// Task is the domain entity for a task.
// UserID is the owning user and never changes after creation.
// AvatarPath is the storage key of the normalized avatar image, nil until
// one has been uploaded.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	AvatarPath  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
