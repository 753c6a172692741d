package service

import (
	"context"
	"sort"
	"time"

	"github.com/taskvault/taskvault-go/internal/model"
	"github.com/taskvault/taskvault-go/internal/repository"
)

// fakeUserStore is an in-memory UserStore mirroring the repository
// semantics: sentinel errors, version bump on update, duplicate detection.
type fakeUserStore struct {
	users       map[int64]*model.User
	nextID      int64
	createCalls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User), nextID: 1}
}

func (f *fakeUserStore) add(u model.User) *model.User {
	if u.ID == 0 {
		u.ID = f.nextID
	}
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	f.createCalls++
	for _, u := range f.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	stored := f.add(*user)
	user.ID = stored.ID
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) List(ctx context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *model.User) (*model.User, error) {
	stored, ok := f.users[user.ID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	for _, u := range f.users {
		if u.ID != user.ID && u.Username == user.Username {
			return nil, repository.ErrDuplicateUsername
		}
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.IsAdmin = user.IsAdmin
	stored.UpdatedByID = user.UpdatedByID
	stored.Version++
	stored.UpdatedAt = time.Now()
	cp := *stored
	return &cp, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeTodoStore is the in-memory TodoStore counterpart.
type fakeTodoStore struct {
	todos  map[int64]*model.Todo
	nextID int64
}

func newFakeTodoStore() *fakeTodoStore {
	return &fakeTodoStore{todos: make(map[int64]*model.Todo), nextID: 1}
}

func (f *fakeTodoStore) add(t model.Todo) *model.Todo {
	if t.ID == 0 {
		t.ID = f.nextID
	}
	if t.ID >= f.nextID {
		f.nextID = t.ID + 1
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.todos[t.ID] = &t
	return &t
}

func (f *fakeTodoStore) Create(ctx context.Context, todo *model.Todo) error {
	stored := f.add(*todo)
	todo.ID = stored.ID
	return nil
}

func (f *fakeTodoStore) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	t, ok := f.todos[id]
	if !ok {
		return nil, repository.ErrTodoNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodoStore) ListAll(ctx context.Context) ([]model.Todo, error) {
	result := make([]model.Todo, 0, len(f.todos))
	for _, t := range f.todos {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeTodoStore) ListOpenByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	var result []model.Todo
	for _, t := range f.todos {
		if t.CreatedByID == ownerID && !t.IsClosed {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeTodoStore) Update(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	stored, ok := f.todos[todo.ID]
	if !ok {
		return nil, repository.ErrTodoNotFound
	}
	stored.Title = todo.Title
	stored.Description = todo.Description
	stored.IsClosed = todo.IsClosed
	stored.UpdatedByID = todo.UpdatedByID
	stored.Version++
	stored.UpdatedAt = time.Now()
	cp := *stored
	return &cp, nil
}

func (f *fakeTodoStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.todos[id]; !ok {
		return repository.ErrTodoNotFound
	}
	delete(f.todos, id)
	return nil
}
