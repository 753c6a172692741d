package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/taskvault/taskvault-go/internal/model"
)

var ErrTodoNotFound = errors.New("todo not found")

const todoColumns = `id, title, description, is_closed, version, created_at, updated_at, created_by_id, updated_by_id`

// TodoRepository handles todo persistence operations.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts a new todo and sets the generated ID on the todo struct.
func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	query := `INSERT INTO todos (title, description, is_closed, created_by_id, updated_by_id)
		VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		todo.Title, nullableString(todo.Description), todo.IsClosed, todo.CreatedByID, todo.UpdatedByID,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	todo.ID = id
	return nil
}

// CreateWithID inserts a todo with an explicit id. Used by seeding only.
func (r *TodoRepository) CreateWithID(ctx context.Context, todo *model.Todo) error {
	query := `INSERT INTO todos (id, title, description, is_closed, created_by_id, updated_by_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.Title, nullableString(todo.Description), todo.IsClosed, todo.CreatedByID, todo.UpdatedByID,
	)
	return err
}

// GetByID retrieves a todo by id.
func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`

	todo := &model.Todo{}
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&todo.ID, &todo.Title, &description, &todo.IsClosed,
		&todo.Version, &todo.CreatedAt, &todo.UpdatedAt, &todo.CreatedByID, &todo.UpdatedByID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	todo.Description = description.String

	return todo, nil
}

// ListAll retrieves every todo regardless of owner or state. Admin-only
// visibility; the service decides which query to issue.
func (r *TodoRepository) ListAll(ctx context.Context) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY id ASC`
	return r.list(ctx, query)
}

// ListOpenByOwner retrieves the open todos owned by the given user. The
// filter lives in the query so closed and foreign rows never leave the
// database for non-admin callers.
func (r *TodoRepository) ListOpenByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
		WHERE created_by_id = ? AND is_closed = FALSE ORDER BY id ASC`
	return r.list(ctx, query, ownerID)
}

// Update overwrites the mutable columns and bumps the version counter,
// returning the row as stored. created_by_id is never touched.
func (r *TodoRepository) Update(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	query := `UPDATE todos
		SET title = ?, description = ?, is_closed = ?, updated_by_id = ?, version = version + 1
		WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query,
		todo.Title, nullableString(todo.Description), todo.IsClosed, todo.UpdatedByID, todo.ID,
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, todo.ID)
}

// Delete removes a todo row by id.
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTodoNotFound
	}

	return nil
}

func (r *TodoRepository) list(ctx context.Context, query string, args ...any) ([]model.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		var t model.Todo
		var description sql.NullString
		if err := rows.Scan(
			&t.ID, &t.Title, &description, &t.IsClosed,
			&t.Version, &t.CreatedAt, &t.UpdatedAt, &t.CreatedByID, &t.UpdatedByID,
		); err != nil {
			return nil, err
		}
		t.Description = description.String
		todos = append(todos, t)
	}

	return todos, rows.Err()
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
