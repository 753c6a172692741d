// Package seed installs the baseline fixture rows at startup: an admin and
// a regular user, plus four todos covering every owner/state combination.
// Seeding is idempotent; rows already present by id are left alone.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskvault/taskvault-go/internal/crypto"
	"github.com/taskvault/taskvault-go/internal/model"
	"github.com/taskvault/taskvault-go/internal/repository"
)

// Seeder ensures the baseline users and todos exist.
type Seeder struct {
	users *repository.UserRepository
	todos *repository.TodoRepository
}

// New creates a Seeder over the given repositories.
func New(users *repository.UserRepository, todos *repository.TodoRepository) *Seeder {
	return &Seeder{users: users, todos: todos}
}

// Run seeds users first so the todo owner ids resolve.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.ensureUser(ctx, 1, "admin", true); err != nil {
		return err
	}
	if err := s.ensureUser(ctx, 2, "user", false); err != nil {
		return err
	}

	if err := s.ensureTodo(ctx, 1, "OpenAdmin", "Example of an open admin todo", false, 1); err != nil {
		return err
	}
	if err := s.ensureTodo(ctx, 2, "ClosedAdmin", "Example of an closed admin todo", true, 1); err != nil {
		return err
	}
	if err := s.ensureTodo(ctx, 3, "OpenUser", "Example of an open user todo", false, 2); err != nil {
		return err
	}
	return s.ensureTodo(ctx, 4, "ClosedUser", "Example of a closed user todo", true, 2)
}

// ensureUser inserts a user with the username doubling as password, the
// same convention the fixtures have always used.
func (s *Seeder) ensureUser(ctx context.Context, id int64, username string, isAdmin bool) error {
	_, err := s.users.GetByID(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := crypto.HashPassword(username)
	if err != nil {
		return err
	}

	user := &model.User{
		ID:           id,
		Username:     username,
		Email:        fmt.Sprintf("%s@local.ch", username),
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedByID:  0,
		UpdatedByID:  0,
	}
	if err := s.users.CreateWithID(ctx, user); err != nil {
		return err
	}

	slog.Info("seeded user", "id", id, "username", username, "is_admin", isAdmin)
	return nil
}

func (s *Seeder) ensureTodo(ctx context.Context, id int64, title, description string, isClosed bool, ownerID int64) error {
	_, err := s.todos.GetByID(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrTodoNotFound) {
		return err
	}

	todo := &model.Todo{
		ID:          id,
		Title:       title,
		Description: description,
		IsClosed:    isClosed,
		CreatedByID: ownerID,
		UpdatedByID: ownerID,
	}
	if err := s.todos.CreateWithID(ctx, todo); err != nil {
		return err
	}

	slog.Info("seeded todo", "id", id, "title", title, "is_closed", isClosed, "owner_id", ownerID)
	return nil
}
