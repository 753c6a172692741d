package handler

import (
	"net/http"

	"github.com/taskvault/taskvault-go/internal/middleware"
	"github.com/taskvault/taskvault-go/internal/model"
	"github.com/taskvault/taskvault-go/internal/service"
	"github.com/taskvault/taskvault-go/internal/validate"
)

// AuthHandler handles HTTP requests for sign-in, registration and profile.
type AuthHandler struct {
	users *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// HandleLogin handles POST /auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	corrID := middleware.CorrIDFromContext(r.Context())

	var req model.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, corrID, err)
		return
	}

	resp, err := h.users.SignIn(r.Context(), corrID, req)
	if err != nil {
		writeError(w, corrID, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleRegister handles POST /auth/register requests. Registration stamps
// the audit columns with actor id 0, there being no authenticated caller.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	corrID := middleware.CorrIDFromContext(r.Context())

	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, corrID, err)
		return
	}

	resp, err := h.users.Create(r.Context(), corrID, 0, req)
	if err != nil {
		writeError(w, corrID, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleProfile handles GET /auth/profile requests, returning the caller's
// own sanitized view.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}

	resp, err := h.users.FindOne(r.Context(), rc, rc.UserID)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
