package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskvault/taskvault-go/internal/apperror"
	"github.com/taskvault/taskvault-go/internal/model"
	"github.com/taskvault/taskvault-go/internal/repository"
)

// TodoService implements the todo access policy. Every operation follows
// the same shape: look up by id, NotFound if absent, apply the
// authorization predicate, mutate, map to the sanitized view.
type TodoService struct {
	store TodoStore
}

// NewTodoService creates a new TodoService.
func NewTodoService(store TodoStore) *TodoService {
	return &TodoService{store: store}
}

// Create stores a new todo owned by the caller.
func (s *TodoService) Create(ctx context.Context, rc model.RequestContext, req model.CreateTodoRequest) (model.TodoResponse, error) {
	todo := &model.Todo{
		Title:       req.Title,
		Description: req.Description,
		CreatedByID: rc.UserID,
		UpdatedByID: rc.UserID,
	}

	if err := s.store.Create(ctx, todo); err != nil {
		return model.TodoResponse{}, apperror.NewDatabase("creating todo", err)
	}

	created, err := s.store.GetByID(ctx, todo.ID)
	if err != nil {
		return model.TodoResponse{}, apperror.NewDatabase("reloading todo", err)
	}

	slog.Debug("todo created", "corr_id", rc.CorrID, "todo_id", created.ID, "owner_id", rc.UserID)
	return todoToResponse(created), nil
}

// FindAll lists todos. Admins see everything; other callers see only their
// own open todos. The branch picks the store query, so closed and foreign
// rows never leave the database for non-admins.
func (s *TodoService) FindAll(ctx context.Context, rc model.RequestContext) ([]model.TodoResponse, error) {
	var (
		todos []model.Todo
		err   error
	)
	if rc.IsAdmin {
		todos, err = s.store.ListAll(ctx)
	} else {
		todos, err = s.store.ListOpenByOwner(ctx, rc.UserID)
	}
	if err != nil {
		return nil, apperror.NewDatabase("listing todos", err)
	}

	result := make([]model.TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = todoToResponse(&t)
	}
	return result, nil
}

// FindOne returns a single todo, visible to its owner and to admins.
func (s *TodoService) FindOne(ctx context.Context, rc model.RequestContext, id int64) (model.TodoResponse, error) {
	todo, err := s.getTodo(ctx, id)
	if err != nil {
		return model.TodoResponse{}, err
	}
	if !rc.IsAdmin && todo.CreatedByID != rc.UserID {
		return model.TodoResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}
	return todoToResponse(todo), nil
}

// Update applies a partial update. Owners may patch their own todos but may
// not reopen them; only admins may set isClosed back to false. There is no
// version check here: partial updates are deliberately last-write-wins, in
// contrast to Replace.
func (s *TodoService) Update(ctx context.Context, rc model.RequestContext, id int64, req model.UpdateTodoRequest) (model.TodoResponse, error) {
	existing, err := s.getTodo(ctx, id)
	if err != nil {
		return model.TodoResponse{}, err
	}
	if existing.CreatedByID != rc.UserID && !rc.IsAdmin {
		return model.TodoResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}
	if req.IsClosed != nil && !*req.IsClosed && !rc.IsAdmin {
		return model.TodoResponse{}, apperror.NewForbidden("Opening todos is not allowed", nil)
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.IsClosed != nil {
		existing.IsClosed = *req.IsClosed
	}
	existing.UpdatedByID = rc.UserID

	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		return model.TodoResponse{}, apperror.NewDatabase("updating todo", err)
	}

	return todoToResponse(updated), nil
}

// UpdateByAdmin closes or reopens any todo. The not-found check runs before
// the admin check, so probing an id that does not exist yields 404 either way.
func (s *TodoService) UpdateByAdmin(ctx context.Context, rc model.RequestContext, id int64, req model.UpdateTodoAdminRequest) (model.TodoResponse, error) {
	existing, err := s.getTodo(ctx, id)
	if err != nil {
		return model.TodoResponse{}, err
	}
	if !rc.IsAdmin {
		return model.TodoResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}

	existing.IsClosed = req.IsClosed
	existing.UpdatedByID = rc.UserID

	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		return model.TodoResponse{}, apperror.NewDatabase("updating todo", err)
	}

	return todoToResponse(updated), nil
}

// Replace overwrites a todo with a full snapshot. The caller's version must
// match the stored one or the write is rejected with a Conflict and the row
// stays untouched. Admin-only; the version check runs first.
func (s *TodoService) Replace(ctx context.Context, rc model.RequestContext, id int64, req model.ReplaceTodoRequest) (model.TodoResponse, error) {
	existing, err := s.getTodo(ctx, id)
	if err != nil {
		return model.TodoResponse{}, err
	}

	if existing.Version != req.Version {
		slog.Debug("replace todo: version mismatch",
			"corr_id", rc.CorrID, "todo_id", id, "expected", existing.Version, "got", req.Version)
		return model.TodoResponse{}, apperror.NewConflict(
			fmt.Sprintf("Todo %d version mismatch, expected %d got %d", id, existing.Version, req.Version), nil)
	}

	if !rc.IsAdmin {
		return model.TodoResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.IsClosed = req.IsClosed
	existing.UpdatedByID = rc.UserID

	replaced, err := s.store.Update(ctx, existing)
	if err != nil {
		return model.TodoResponse{}, apperror.NewDatabase("replacing todo", err)
	}

	return todoToResponse(replaced), nil
}

// Remove deletes a todo and returns the pre-delete view. Admin-only;
// owners cannot delete their own todos.
func (s *TodoService) Remove(ctx context.Context, rc model.RequestContext, id int64) (model.TodoResponse, error) {
	existing, err := s.getTodo(ctx, id)
	if err != nil {
		return model.TodoResponse{}, err
	}
	if !rc.IsAdmin {
		return model.TodoResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return model.TodoResponse{}, apperror.NewNotFound(fmt.Sprintf("Todo %d not found", id), nil)
		}
		return model.TodoResponse{}, apperror.NewDatabase("deleting todo", err)
	}

	slog.Debug("todo removed", "corr_id", rc.CorrID, "todo_id", id, "actor_id", rc.UserID)
	return todoToResponse(existing), nil
}

func (s *TodoService) getTodo(ctx context.Context, id int64) (*model.Todo, error) {
	todo, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, apperror.NewNotFound(fmt.Sprintf("Todo %d not found", id), nil)
		}
		return nil, apperror.NewDatabase("looking up todo", err)
	}
	return todo, nil
}

// todoToResponse maps a todo row to its sanitized view.
func todoToResponse(t *model.Todo) model.TodoResponse {
	return model.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsClosed:    t.IsClosed,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CreatedByID: t.CreatedByID,
		UpdatedByID: t.UpdatedByID,
	}
}
