package memberservice

import (
	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
)

type AddUserRequest struct {
	Username string      `json:"username"`
	BoardID  uuid.UUID   `json:"boardId"`
	Role     models.Role `json:"role"`
}
