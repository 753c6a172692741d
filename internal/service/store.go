package service

import (
	"context"

	"github.com/taskvault/taskvault-go/internal/model"
)

// UserStore is the persistence surface the user policy depends on.
// *repository.UserRepository implements it; tests substitute in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

// TodoStore is the persistence surface the todo policy depends on.
type TodoStore interface {
	Create(ctx context.Context, todo *model.Todo) error
	GetByID(ctx context.Context, id int64) (*model.Todo, error)
	ListAll(ctx context.Context) ([]model.Todo, error)
	ListOpenByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) (*model.Todo, error)
	Delete(ctx context.Context, id int64) error
}
