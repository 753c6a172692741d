package handler

import (
	"net/http"

	"github.com/taskvault/taskvault-go/internal/model"
	"github.com/taskvault/taskvault-go/internal/service"
	"github.com/taskvault/taskvault-go/internal/validate"
)

// TodoHandler handles HTTP requests for todo operations. Authorization
// lives entirely in the service; handlers only shuttle identity and DTOs.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// HandleCreate handles POST /todo requests. The caller becomes the owner.
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}

	var req model.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	resp, err := h.todos.Create(r.Context(), rc, req)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleFindAll handles GET /todo requests. Admins get every todo; other
// callers get their own open todos.
func (h *TodoHandler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}

	resp, err := h.todos.FindAll(r.Context(), rc)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleFindOne handles GET /todo/{id} requests.
func (h *TodoHandler) HandleFindOne(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.todos.FindOne(r.Context(), rc, id)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PATCH /todo/{id} requests: a partial, last-write-wins
// update subject to the ownership and reopen rules.
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req model.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	resp, err := h.todos.Update(r.Context(), rc, id, req)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateAdmin handles PATCH /todo/{id}/admin requests: the admin-only
// close/reopen toggle.
func (h *TodoHandler) HandleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req model.UpdateTodoAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.todos.UpdateByAdmin(r.Context(), rc, id, req)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleReplace handles PUT /todo/{id} requests: a version-checked full
// replace of the target todo.
func (h *TodoHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req model.ReplaceTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	resp, err := h.todos.Replace(r.Context(), rc, id, req)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRemove handles DELETE /todo/{id} requests, returning the removed view.
func (h *TodoHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	rc, ok := callerContext(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.todos.Remove(r.Context(), rc, id)
	if err != nil {
		writeError(w, rc.CorrID, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
