package models

import "github.com/google/uuid"

type Tag struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Color   string    `json:"color"`
	BoardID uuid.UUID `json:"boardId"`
}
