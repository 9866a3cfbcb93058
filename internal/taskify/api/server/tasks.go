package server

import (
	"net/http"

	"github.com/jorgebenaventee/taskify/internal/taskify/services/taskservice"
)

func (s *Server) postTask(w http.ResponseWriter, r *http.Request) {
	var req taskservice.CreateTaskRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	task, err := s.taskService.CreateTask(r.Context(), currentUserID(r.Context()), req)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, task)
}

func (s *Server) putTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var req taskservice.EditTaskRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	task, err := s.taskService.EditTask(r.Context(), currentUserID(r.Context()), taskID, req)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.taskService.DeleteTask(r.Context(), currentUserID(r.Context()), taskID); err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putTaskMove(w http.ResponseWriter, r *http.Request) {
	var req taskservice.MoveTaskRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.taskService.MoveTask(r.Context(), currentUserID(r.Context()), req); err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
