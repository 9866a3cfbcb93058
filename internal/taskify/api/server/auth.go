package server

import (
	"net/http"

	"github.com/jorgebenaventee/taskify/internal/taskify/services/authservice"
)

func (s *Server) postRegister(w http.ResponseWriter, r *http.Request) {
	var req authservice.RegisterRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	token, err := s.authService.Register(r.Context(), req)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, TokenResponse{Token: token})
}

func (s *Server) postLogin(w http.ResponseWriter, r *http.Request) {
	var req authservice.RegisterRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	token, err := s.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, TokenResponse{Token: token})
}
