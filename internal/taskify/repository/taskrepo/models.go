package taskrepo

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("task not found")

// Placement is one row of a reorder plan: the task ends up in the given
// column at the given order.
type Placement struct {
	TaskID   uuid.UUID
	ColumnID uuid.UUID
	Order    int
}
