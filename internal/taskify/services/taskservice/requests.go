package taskservice

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StartDate   *time.Time  `json:"startDate"`
	EndDate     *time.Time  `json:"endDate"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	Tags        []uuid.UUID `json:"tags"`
	ColumnID    uuid.UUID   `json:"columnId"`
	BoardID     uuid.UUID   `json:"boardId"`
}

type EditTaskRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StartDate   *time.Time  `json:"startDate"`
	EndDate     *time.Time  `json:"endDate"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	Tags        []uuid.UUID `json:"tags"`
	BoardID     uuid.UUID   `json:"boardId"`
}

type MoveTaskRequest struct {
	TaskID      uuid.UUID `json:"taskId"`
	NewColumnID uuid.UUID `json:"newColumnId"`
	BoardID     uuid.UUID `json:"boardId"`
	Order       int       `json:"order"`
}
