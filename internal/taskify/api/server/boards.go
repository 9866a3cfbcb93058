package server

import (
	"net/http"

	"github.com/jorgebenaventee/taskify/internal/taskify/services/boardservice"
)

type createBoardRequest struct {
	Name string `json:"name"`
}

func (s *Server) getBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.boardService.Boards(r.Context(), currentUserID(r.Context()))
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, boards)
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	board, err := s.boardService.Board(r.Context(), currentUserID(r.Context()), boardID)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, board)
}

func (s *Server) postBoard(w http.ResponseWriter, r *http.Request) {
	var req createBoardRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	board, err := s.boardService.CreateBoard(r.Context(), currentUserID(r.Context()), req.Name)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, board)
}

func (s *Server) deleteBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.boardService.DeleteBoard(r.Context(), currentUserID(r.Context()), boardID); err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getColumns(w http.ResponseWriter, r *http.Request) {
	boardID, err := queryID(r, "boardId")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	columns, err := s.boardService.Columns(r.Context(), currentUserID(r.Context()), boardID)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, columns)
}

func (s *Server) postColumn(w http.ResponseWriter, r *http.Request) {
	var req boardservice.CreateColumnRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	column, err := s.boardService.CreateColumn(r.Context(), currentUserID(r.Context()), req)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, column)
}

func (s *Server) putColumn(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathID(r, "columnID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var req boardservice.EditColumnRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	req.ColumnID = columnID

	if err := s.boardService.EditColumn(r.Context(), currentUserID(r.Context()), req); err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteColumn(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathID(r, "columnID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.boardService.DeleteColumn(r.Context(), currentUserID(r.Context()), columnID); err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
