package models

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type Board struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

// Membership is a user_boards row. A user can touch a board's resources
// only through one of these.
type Membership struct {
	UserID  uuid.UUID `json:"userId"`
	BoardID uuid.UUID `json:"boardId"`
	Role    Role      `json:"role"`
}
