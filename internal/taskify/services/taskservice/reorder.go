package taskservice

import (
	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/taskrepo"
)

// planMove computes the row updates that put the moving task into the
// target column at the given index while keeping every touched column's
// order values dense and zero based.
//
// Post-move membership is built explicitly: the moving task is removed
// from both snapshots first, then spliced into the target list, so the
// same-column case degenerates to one list handled once. An index past
// the end appends, a negative one prepends. Only rows whose column or
// order actually changes are emitted, so a no-op move yields an empty
// plan.
func planMove(source, target []models.Task, moving models.Task, targetColumnID uuid.UUID, index int) []taskrepo.Placement {
	src := exclude(source, moving.ID)
	dst := exclude(target, moving.ID)

	if moving.ColumnID == targetColumnID {
		dst = src
		src = nil
	}

	if index < 0 {
		index = 0
	}

	if index > len(dst) {
		index = len(dst)
	}

	spliced := make([]models.Task, 0, len(dst)+1)
	spliced = append(spliced, dst[:index]...)
	spliced = append(spliced, moving)
	spliced = append(spliced, dst[index:]...)
	spliced = dedupe(spliced)

	var placements []taskrepo.Placement

	for i, t := range src {
		if t.Order != i {
			placements = append(placements, taskrepo.Placement{TaskID: t.ID, ColumnID: t.ColumnID, Order: i})
		}
	}

	for i, t := range spliced {
		if t.ColumnID != targetColumnID || t.Order != i {
			placements = append(placements, taskrepo.Placement{TaskID: t.ID, ColumnID: targetColumnID, Order: i})
		}
	}

	return placements
}

// renumber emits the updates that close the gap a removed task leaves
// behind.
func renumber(tasks []models.Task, removed uuid.UUID) []taskrepo.Placement {
	var placements []taskrepo.Placement

	for i, t := range exclude(tasks, removed) {
		if t.Order != i {
			placements = append(placements, taskrepo.Placement{TaskID: t.ID, ColumnID: t.ColumnID, Order: i})
		}
	}

	return placements
}

func exclude(tasks []models.Task, id uuid.UUID) []models.Task {
	out := make([]models.Task, 0, len(tasks))

	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}

	return out
}

// dedupe keeps the first occurrence of every id. The snapshots should be
// unique already, this guards against a corrupted read.
func dedupe(tasks []models.Task) []models.Task {
	seen := make(map[uuid.UUID]struct{}, len(tasks))
	out := make([]models.Task, 0, len(tasks))

	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			continue
		}

		seen[t.ID] = struct{}{}
		out = append(out, t)
	}

	return out
}
