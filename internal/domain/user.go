package domain

import "time"

// User is the domain entity for a user account.
// PasswordHash is always a bcrypt hash; the raw password never leaves the
// auth layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
