package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/taskvault/taskvault-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

const userColumns = `id, username, email, password_hash, is_admin, version, created_at, updated_at, created_by_id, updated_by_id`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, is_admin, created_by_id, updated_by_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedByID, user.UpdatedByID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateUsername
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// CreateWithID inserts a user with an explicit id. Used by seeding only.
func (r *UserRepository) CreateWithID(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, is_admin, created_by_id, updated_by_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedByID, user.UpdatedByID,
	)
	if err != nil && isDuplicateEntryError(err) {
		return ErrDuplicateUsername
	}
	return err
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a user by the stored, lowercased username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// List retrieves all users ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin,
			&u.Version, &u.CreatedAt, &u.UpdatedAt, &u.CreatedByID, &u.UpdatedByID,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Update overwrites the mutable columns and bumps the version counter,
// returning the row as stored. Stale writers are not rejected here; the
// optimistic-lock check happens in the service layer before calling Update.
func (r *UserRepository) Update(ctx context.Context, user *model.User) (*model.User, error) {
	query := `UPDATE users
		SET username = ?, email = ?, password_hash = ?, is_admin = ?, updated_by_id = ?, version = version + 1
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.UpdatedByID, user.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	if _, err := result.RowsAffected(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, user.ID)
}

// Delete removes a user row by id.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin,
		&user.Version, &user.CreatedAt, &user.UpdatedAt, &user.CreatedByID, &user.UpdatedByID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
