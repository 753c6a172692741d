package model

import "time"

// User represents a user row in the database.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedByID  int64
	UpdatedByID  int64
}

// CreateUserRequest represents a registration or admin user-creation request.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=8,max=20,lowercase"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
}

// SignInRequest represents a login request.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// UpdateUserAdminRequest carries the single field an admin may patch.
type UpdateUserAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// ReplaceUserRequest is a full user snapshot for the version-checked replace.
type ReplaceUserRequest struct {
	ID       int64  `json:"id"`
	Version  int    `json:"version"`
	Username string `json:"username" validate:"omitempty,min=8,max=20,lowercase"`
	Email    string `json:"email" validate:"omitempty,email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UserResponse is the sanitized user view. The password hash never leaves
// the policy boundary.
type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"isAdmin"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CreatedByID int64     `json:"createdById"`
	UpdatedByID int64     `json:"updatedById"`
}
