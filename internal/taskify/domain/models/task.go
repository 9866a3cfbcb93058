package models

import (
	"time"

	"github.com/google/uuid"
)

// Task order is dense and zero based among the tasks sharing a column.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ColumnID    uuid.UUID   `json:"columnId"`
	Order       int         `json:"order"`
	StartDate   *time.Time  `json:"startDate,omitempty"`
	EndDate     *time.Time  `json:"endDate,omitempty"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	TagIDs      []uuid.UUID `json:"-"`
}
