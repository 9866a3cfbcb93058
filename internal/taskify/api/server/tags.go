package server

import (
	"net/http"

	"github.com/jorgebenaventee/taskify/internal/taskify/services/tagservice"
)

func (s *Server) getTags(w http.ResponseWriter, r *http.Request) {
	boardID, err := queryID(r, "boardId")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	tags, err := s.tagService.TagsInBoard(r.Context(), currentUserID(r.Context()), boardID)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, tags)
}

func (s *Server) getTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := pathID(r, "tagID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	tag, err := s.tagService.Tag(r.Context(), currentUserID(r.Context()), tagID)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, tag)
}

func (s *Server) postTag(w http.ResponseWriter, r *http.Request) {
	var req tagservice.TagRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	tag, err := s.tagService.CreateTag(r.Context(), currentUserID(r.Context()), req)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, tag)
}

func (s *Server) putTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := pathID(r, "tagID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var req tagservice.TagRequest

	if err := decodeBody(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	tag, err := s.tagService.UpdateTag(r.Context(), currentUserID(r.Context()), tagID, req)
	if err != nil {
		s.handleServiceError(w, err)

		return
	}

	writeJSON(w, tag)
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := pathID(r, "tagID")
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.tagService.DeleteTag(r.Context(), currentUserID(r.Context()), tagID); err != nil {
		s.handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
