package server

import (
	"errors"
	"net/http"

	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/boardrepo"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/taskrepo"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/authservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/memberservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/taskservice"
)

type Error struct {
	Err string `json:"error"`
}

func handleError(w http.ResponseWriter, err error, code int) {
	resp := Error{Err: err.Error()}

	w.WriteHeader(code)
	writeJSON(w, resp)
}

// handleServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is an internal error and keeps its message out of the body.
func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	code := statusFromError(err)
	if code == http.StatusInternalServerError {
		handleError(w, errors.New("internal server error"), code)

		return
	}

	handleError(w, err, code)
}

func statusFromError(err error) int {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, taskservice.ErrColumnNotInBoard),
		errors.Is(err, memberservice.ErrAlreadyMember),
		errors.Is(err, authservice.ErrUserExists):
		return http.StatusBadRequest
	case errors.Is(err, authservice.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, memberservice.ErrAccessDenied),
		errors.Is(err, memberservice.ErrSelfRemoval):
		return http.StatusForbidden
	case errors.Is(err, memberservice.ErrBoardNotFound),
		errors.Is(err, memberservice.ErrUserNotFound),
		errors.Is(err, memberservice.ErrNotAMember),
		errors.Is(err, taskservice.ErrTaskNotFound),
		errors.Is(err, taskservice.ErrColumnNotFound),
		errors.Is(err, boardrepo.ErrNotFound),
		errors.Is(err, boardrepo.ErrColumnNotFound),
		errors.Is(err, boardrepo.ErrTagNotFound),
		errors.Is(err, taskrepo.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
