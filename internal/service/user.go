package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskvault/taskvault-go/internal/apperror"
	"github.com/taskvault/taskvault-go/internal/crypto"
	"github.com/taskvault/taskvault-go/internal/model"
	"github.com/taskvault/taskvault-go/internal/repository"
)

const forbiddenMessage = "The user is not authorized to access this resource"

// UserService implements the user access policy: credential verification,
// token issuance and admin/self-gated CRUD over the credential store.
type UserService struct {
	store     UserStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, secret string, expiry time.Duration) *UserService {
	return &UserService{
		store:     store,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// SignIn verifies the credentials and issues a bearer token. An unknown
// username is NotFound, a wrong password is an authentication failure;
// neither path issues a token.
func (s *UserService) SignIn(ctx context.Context, corrID int64, req model.SignInRequest) (model.TokenResponse, error) {
	user, err := s.store.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Debug("sign in: unknown username", "corr_id", corrID, "username", req.Username)
			return model.TokenResponse{}, apperror.NewNotFound(fmt.Sprintf("User %s not found", req.Username), nil)
		}
		return model.TokenResponse{}, apperror.NewDatabase("looking up user", err)
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		slog.Debug("sign in: password mismatch", "corr_id", corrID, "user_id", user.ID)
		return model.TokenResponse{}, apperror.NewAuth("Invalid credentials", nil)
	}

	token, err := crypto.GenerateToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.TokenResponse{}, apperror.NewInternal("signing token", err)
	}

	return model.TokenResponse{AccessToken: token}, nil
}

// Create registers a new user. The username uniqueness check runs before
// the password is hashed, so a duplicate never costs an Argon2 pass.
// actorID stamps the audit columns; registration passes 0.
func (s *UserService) Create(ctx context.Context, corrID, actorID int64, req model.CreateUserRequest) (model.UserResponse, error) {
	_, err := s.store.GetByUsername(ctx, req.Username)
	if err == nil {
		slog.Warn("create user: username already exists", "corr_id", corrID, "username", req.Username)
		return model.UserResponse{}, apperror.NewConflict(fmt.Sprintf("Username %s already exists", req.Username), nil)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return model.UserResponse{}, apperror.NewDatabase("looking up user", err)
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, apperror.NewInternal("hashing password", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedByID:  actorID,
		UpdatedByID:  actorID,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.UserResponse{}, apperror.NewConflict(fmt.Sprintf("Username %s already exists", req.Username), nil)
		}
		return model.UserResponse{}, apperror.NewDatabase("creating user", err)
	}

	created, err := s.store.GetByID(ctx, user.ID)
	if err != nil {
		return model.UserResponse{}, apperror.NewDatabase("reloading user", err)
	}

	return userToResponse(created), nil
}

// FindAll returns the sanitized view of every user. The admin gate is the
// caller's responsibility; the handler rejects non-admins before invoking.
func (s *UserService) FindAll(ctx context.Context, corrID int64) ([]model.UserResponse, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.NewDatabase("listing users", err)
	}

	result := make([]model.UserResponse, len(users))
	for i, u := range users {
		result[i] = userToResponse(&u)
	}
	return result, nil
}

// FindOne returns a single user. Non-admins may only look up themselves.
func (s *UserService) FindOne(ctx context.Context, rc model.RequestContext, id int64) (model.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return model.UserResponse{}, err
	}
	if !rc.IsAdmin && rc.UserID != id {
		return model.UserResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}
	return userToResponse(user), nil
}

// Update merges only the isAdmin flag into the target user. Admin-only;
// enforced here independently of the handler-level pre-check. Last write
// wins, no version check.
func (s *UserService) Update(ctx context.Context, rc model.RequestContext, id int64, req model.UpdateUserAdminRequest) (model.UserResponse, error) {
	if !rc.IsAdmin {
		return model.UserResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}

	existing, err := s.getUser(ctx, id)
	if err != nil {
		return model.UserResponse{}, err
	}

	existing.IsAdmin = req.IsAdmin
	existing.UpdatedByID = rc.UserID

	updated, err := s.store.Update(ctx, existing)
	if err != nil {
		return model.UserResponse{}, apperror.NewDatabase("updating user", err)
	}

	return userToResponse(updated), nil
}

// Replace overwrites the target user with a full snapshot, rejecting stale
// writers by version. Admin-only.
func (s *UserService) Replace(ctx context.Context, rc model.RequestContext, id int64, req model.ReplaceUserRequest) (model.UserResponse, error) {
	if !rc.IsAdmin {
		return model.UserResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}

	existing, err := s.getUser(ctx, id)
	if err != nil {
		return model.UserResponse{}, err
	}

	if existing.Version != req.Version {
		slog.Debug("replace user: version mismatch",
			"corr_id", rc.CorrID, "user_id", id, "expected", existing.Version, "got", req.Version)
		return model.UserResponse{}, apperror.NewConflict(
			fmt.Sprintf("User %d version mismatch, expected %d got %d", id, existing.Version, req.Version), nil)
	}

	if req.Username != "" {
		existing.Username = req.Username
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	existing.IsAdmin = req.IsAdmin
	existing.UpdatedByID = rc.UserID

	replaced, err := s.store.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.UserResponse{}, apperror.NewConflict(fmt.Sprintf("Username %s already exists", req.Username), nil)
		}
		return model.UserResponse{}, apperror.NewDatabase("replacing user", err)
	}

	return userToResponse(replaced), nil
}

// Remove deletes a user and returns the pre-delete view. Admin-only,
// enforced in the policy layer rather than relying on the handler alone.
func (s *UserService) Remove(ctx context.Context, rc model.RequestContext, id int64) (model.UserResponse, error) {
	if !rc.IsAdmin {
		return model.UserResponse{}, apperror.NewForbidden(forbiddenMessage, nil)
	}

	existing, err := s.getUser(ctx, id)
	if err != nil {
		return model.UserResponse{}, err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, apperror.NewNotFound(fmt.Sprintf("User %d not found", id), nil)
		}
		return model.UserResponse{}, apperror.NewDatabase("deleting user", err)
	}

	slog.Debug("user removed", "corr_id", rc.CorrID, "user_id", id, "actor_id", rc.UserID)
	return userToResponse(existing), nil
}

func (s *UserService) getUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NewNotFound(fmt.Sprintf("User %d not found", id), nil)
		}
		return nil, apperror.NewDatabase("looking up user", err)
	}
	return user, nil
}

// userToResponse maps a user row to its sanitized view.
func userToResponse(u *model.User) model.UserResponse {
	return model.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		Version:     u.Version,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		CreatedByID: u.CreatedByID,
		UpdatedByID: u.UpdatedByID,
	}
}
