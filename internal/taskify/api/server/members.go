package server

import (
	"net/http"

	"github.com/jorgebenaventee/taskify/internal/taskify/services/memberservice"
)

func (s *Server) getUsersInBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	users, err := s.memberService.UsersInBoard(r.Context(), currentUserID(r.Context()), boardID)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, users)
}

func (s *Server) postUserBoard(w http.ResponseWriter, r *http.Request) {
	var req memberservice.AddUserRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	membership, err := s.memberService.AddUser(r.Context(), currentUserID(r.Context()), req)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, membership)
}

func (s *Server) deleteUserBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.memberService.RemoveUser(r.Context(), currentUserID(r.Context()), userID, boardID); err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
