package dto

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=20"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest is the form body for POST /auth/login.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// UserResponse is returned after registration.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// TokenResponse is returned after a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
