package model

import "time"

// Todo represents a todo row in the database. CreatedByID designates the
// owner and is immutable after creation.
type Todo struct {
	ID          int64
	Title       string
	Description string
	IsClosed    bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedByID int64
	UpdatedByID int64
}

// CreateTodoRequest represents a todo creation request.
type CreateTodoRequest struct {
	Title       string `json:"title" validate:"required,min=8,max=50"`
	Description string `json:"description" validate:"omitempty,max=150"`
}

// UpdateTodoRequest is a partial update. Nil fields are left untouched.
type UpdateTodoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=8,max=50"`
	Description *string `json:"description" validate:"omitempty,max=150"`
	IsClosed    *bool   `json:"isClosed"`
}

// UpdateTodoAdminRequest carries the close/reopen flag for the admin patch.
type UpdateTodoAdminRequest struct {
	IsClosed bool `json:"isClosed"`
}

// ReplaceTodoRequest is a full todo snapshot for the version-checked replace.
type ReplaceTodoRequest struct {
	ID          int64  `json:"id"`
	Version     int    `json:"version"`
	Title       string `json:"title" validate:"omitempty,min=8,max=50"`
	Description string `json:"description" validate:"omitempty,max=150"`
	IsClosed    bool   `json:"isClosed"`
}

// TodoResponse is the sanitized todo view.
type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsClosed    bool      `json:"isClosed"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CreatedByID int64     `json:"createdById"`
	UpdatedByID int64     `json:"updatedById"`
}
