package boardservice

import (
	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
)

type CreateColumnRequest struct {
	Name    string    `json:"name"`
	BoardID uuid.UUID `json:"boardId"`
}

type EditColumnRequest struct {
	ColumnID uuid.UUID `json:"-"`
	Name     string    `json:"name"`
	BoardID  uuid.UUID `json:"boardId"`
}

// BoardResponse is a board with the caller's admin standing resolved.
type BoardResponse struct {
	models.Board
	IsAdmin bool `json:"isAdmin"`
}
