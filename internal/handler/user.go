package handler

import (
	"net/http"

	"github.com/taskvault/taskvault-go/internal/apperror"
	"github.com/taskvault/taskvault-go/internal/model"
	"github.com/taskvault/taskvault-go/internal/service"
	"github.com/taskvault/taskvault-go/internal/validate"
)

// UserHandler handles HTTP requests for user administration. The admin
// pre-checks here are the first line; the service enforces the same rules
// again so the policy does not depend on the transport layer.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleCreate handles POST /user requests. Any authenticated caller may
// create a user; the new row is stamped with the caller as creator.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}

	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	resp, err := h.users.Create(r.Context(), rc.CorrID, rc.UserID, req)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleFindAll handles GET /user requests. Admin only.
func (h *UserHandler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	if !rc.IsAdmin {
		writeError(w, rc.CorrID, apperror.NewForbidden("The user is not authorized to access this resource", nil))
		return
	}

	resp, err := h.users.FindAll(r.Context(), rc.CorrID)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleFindOne handles GET /user/{id} requests. Self or admin.
func (h *UserHandler) HandleFindOne(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.users.FindOne(r.Context(), rc, id)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateAdmin handles PATCH /user/{id}/admin and PATCH /user/{id}
// requests, toggling the admin flag on the target user.
func (h *UserHandler) HandleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req model.UpdateUserAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.users.Update(r.Context(), rc, id, req)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleReplace handles PUT /user/{id} requests: a version-checked full
// replace of the target user.
func (h *UserHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req model.ReplaceUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	resp, err := h.users.Replace(r.Context(), rc, id, req)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRemove handles DELETE /user/{id} requests, returning the removed view.
func (h *UserHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.users.Remove(r.Context(), rc, id)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
