package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskvault/taskvault-go/internal/apperror"
	"github.com/taskvault/taskvault-go/internal/middleware"
	"github.com/taskvault/taskvault-go/internal/model"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) apperror.ErrorResponse {
	return apperror.ErrorResponse{Error: msg}
}

// writeError maps an AppError to its HTTP status; anything unclassified is
// reported as a plain 500 without leaking internals.
func writeError(w http.ResponseWriter, corrID int64, err error) {
	if ae, ok := apperror.FromError(err); ok {
		if ae.StatusCode() >= http.StatusInternalServerError {
			slog.Error("request failed", "corr_id", corrID, "error", err)
			writeJSON(w, ae.StatusCode(), errorResponse("internal server error"))
			return
		}
		writeJSON(w, ae.StatusCode(), ae.ToResponse())
		return
	}
	slog.Error("request failed", "corr_id", corrID, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
}

// decodeJSON reads a capped request body into dst, reporting oversized and
// malformed payloads with the right status. Returns false after responding.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// idParam parses the {id} URL parameter. Returns false after responding.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid id"))
		return 0, false
	}
	return id, true
}

// callerContext pulls the RequestContext built by the auth middleware.
// Returns false after responding; reaching that path means a route was
// mounted without the Auth middleware.
func callerContext(w http.ResponseWriter, r *http.Request) (model.RequestContext, bool) {
	rc, ok := middleware.RequestContextFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return model.RequestContext{}, false
	}
	return rc, true
}
