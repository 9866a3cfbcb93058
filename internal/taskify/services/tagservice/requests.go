package tagservice

import (
	"github.com/google/uuid"
)

type TagRequest struct {
	Name    string    `json:"name"`
	Color   string    `json:"color"`
	BoardID uuid.UUID `json:"boardId"`
}
