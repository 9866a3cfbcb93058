package models

import "github.com/google/uuid"

type Column struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	BoardID uuid.UUID `json:"boardId"`
	Order   int       `json:"order"`
}
