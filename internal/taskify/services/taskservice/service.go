package taskservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/boardrepo"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/taskrepo"
	"github.com/jorgebenaventee/taskify/pkg/logger"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrColumnNotFound = errors.New("column not found")
	// ErrColumnNotInBoard rejects requests whose column belongs to a
	// different board than the one the caller was authorized against.
	ErrColumnNotInBoard = errors.New("column does not belong to the board")
)

const minNameLen = 3

type TaskRepo interface {
	CreateTask(context.Context, models.Task) (models.Task, error)
	UpdateTask(context.Context, models.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID, renumber []taskrepo.Placement) error
	GetTask(context.Context, uuid.UUID) (models.Task, error)
	ListByColumn(ctx context.Context, columnID uuid.UUID) ([]models.Task, error)
	MaxOrder(ctx context.Context, columnID uuid.UUID) (int, error)
	ApplyMove(context.Context, []taskrepo.Placement) error
}

type BoardRepo interface {
	GetColumn(context.Context, uuid.UUID) (models.Column, error)
	ListTagsByIDs(context.Context, []uuid.UUID) ([]models.Tag, error)
}

type UserRepo interface {
	ListByIDs(context.Context, []uuid.UUID) ([]models.User, error)
}

type Gate interface {
	RequireMember(ctx context.Context, userID, boardID uuid.UUID) (models.Role, error)
}

type Cache interface {
	Invalidate(ctx context.Context, boardID uuid.UUID) error
}

type TaskService struct {
	taskRepo  TaskRepo
	boardRepo BoardRepo
	userRepo  UserRepo
	gate      Gate
	cache     Cache
	lg        logger.Logger
}

func New(taskRepo TaskRepo, boardRepo BoardRepo, userRepo UserRepo, gate Gate, cache Cache, lg logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		boardRepo: boardRepo,
		userRepo:  userRepo,
		gate:      gate,
		cache:     cache,
		lg:        lg,
	}
}

// CreateTask appends the task at the end of its column. Repositioning
// happens only through MoveTask.
func (ts *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req CreateTaskRequest) (models.Task, error) {
	if _, err := ts.gate.RequireMember(ctx, userID, req.BoardID); err != nil {
		return models.Task{}, err
	}

	if _, err := ts.columnInBoard(ctx, req.ColumnID, req.BoardID); err != nil {
		return models.Task{}, err
	}

	if err := validateTask(req.Name, req.StartDate, req.EndDate); err != nil {
		return models.Task{}, err
	}

	if err := ts.resolveRelations(ctx, req.AssignedTo, req.Tags); err != nil {
		return models.Task{}, err
	}

	maxOrder, err := ts.taskRepo.MaxOrder(ctx, req.ColumnID)
	if err != nil {
		return models.Task{}, fmt.Errorf("max order error: %w", err)
	}

	t := models.Task{
		Name:        req.Name,
		Description: req.Description,
		ColumnID:    req.ColumnID,
		Order:       maxOrder + 1,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AssignedTo:  req.AssignedTo,
		TagIDs:      req.Tags,
	}

	t, err = ts.taskRepo.CreateTask(ctx, t)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task error: %w", err)
	}

	ts.invalidate(ctx, req.BoardID)
	ts.lg.Infof("task %s created in column %s at order %d", t.ID, t.ColumnID, t.Order)

	return t, nil
}

// EditTask replaces the task's fields and relation sets. Column and order
// are untouched.
func (ts *TaskService) EditTask(ctx context.Context, userID, taskID uuid.UUID, req EditTaskRequest) (models.Task, error) {
	if _, err := ts.gate.RequireMember(ctx, userID, req.BoardID); err != nil {
		return models.Task{}, err
	}

	t, err := ts.taskRepo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, taskrepo.ErrNotFound) {
			return models.Task{}, ErrTaskNotFound
		}

		return models.Task{}, fmt.Errorf("get task error: %w", err)
	}

	if _, err := ts.columnInBoard(ctx, t.ColumnID, req.BoardID); err != nil {
		return models.Task{}, err
	}

	if err := validateTask(req.Name, req.StartDate, req.EndDate); err != nil {
		return models.Task{}, err
	}

	if err := ts.resolveRelations(ctx, req.AssignedTo, req.Tags); err != nil {
		return models.Task{}, err
	}

	t.Name = req.Name
	t.Description = req.Description
	t.StartDate = req.StartDate
	t.EndDate = req.EndDate
	t.AssignedTo = req.AssignedTo
	t.TagIDs = req.Tags

	if err := ts.taskRepo.UpdateTask(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("update task error: %w", err)
	}

	ts.invalidate(ctx, req.BoardID)

	return t, nil
}

// DeleteTask removes the task and closes the order gap it leaves in its
// column.
func (ts *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	t, err := ts.taskRepo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, taskrepo.ErrNotFound) {
			return ErrTaskNotFound
		}

		return fmt.Errorf("get task error: %w", err)
	}

	col, err := ts.boardRepo.GetColumn(ctx, t.ColumnID)
	if err != nil {
		return fmt.Errorf("get column error: %w", err)
	}

	if _, err := ts.gate.RequireMember(ctx, userID, col.BoardID); err != nil {
		return err
	}

	siblings, err := ts.taskRepo.ListByColumn(ctx, t.ColumnID)
	if err != nil {
		return fmt.Errorf("list tasks error: %w", err)
	}

	if err := ts.taskRepo.DeleteTask(ctx, taskID, renumber(siblings, taskID)); err != nil {
		return fmt.Errorf("delete task error: %w", err)
	}

	ts.invalidate(ctx, col.BoardID)

	return nil
}

// MoveTask puts the task into the target column at the requested index and
// renumbers both touched columns densely. Every precondition is checked
// before any write; the writes themselves ride one transaction.
func (ts *TaskService) MoveTask(ctx context.Context, userID uuid.UUID, req MoveTaskRequest) error {
	if _, err := ts.gate.RequireMember(ctx, userID, req.BoardID); err != nil {
		return err
	}

	t, err := ts.taskRepo.GetTask(ctx, req.TaskID)
	if err != nil {
		if errors.Is(err, taskrepo.ErrNotFound) {
			return ErrTaskNotFound
		}

		return fmt.Errorf("get task error: %w", err)
	}

	if _, err := ts.columnInBoard(ctx, t.ColumnID, req.BoardID); err != nil {
		return err
	}

	if _, err := ts.columnInBoard(ctx, req.NewColumnID, req.BoardID); err != nil {
		return err
	}

	// Already there: nothing to write.
	if t.ColumnID == req.NewColumnID && t.Order == req.Order {
		return nil
	}

	source, err := ts.taskRepo.ListByColumn(ctx, t.ColumnID)
	if err != nil {
		return fmt.Errorf("list tasks error: %w", err)
	}

	var target []models.Task

	if t.ColumnID != req.NewColumnID {
		target, err = ts.taskRepo.ListByColumn(ctx, req.NewColumnID)
		if err != nil {
			return fmt.Errorf("list tasks error: %w", err)
		}
	}

	placements := planMove(source, target, t, req.NewColumnID, req.Order)

	if err := ts.taskRepo.ApplyMove(ctx, placements); err != nil {
		return fmt.Errorf("apply move error: %w", err)
	}

	ts.invalidate(ctx, req.BoardID)
	ts.lg.Infof("task %s moved to column %s at order %d", req.TaskID, req.NewColumnID, req.Order)

	return nil
}

// columnInBoard loads the column and rejects it when it hangs off another
// board than the one the caller was authorized against.
func (ts *TaskService) columnInBoard(ctx context.Context, columnID, boardID uuid.UUID) (models.Column, error) {
	col, err := ts.boardRepo.GetColumn(ctx, columnID)
	if err != nil {
		if errors.Is(err, boardrepo.ErrColumnNotFound) {
			return models.Column{}, ErrColumnNotFound
		}

		return models.Column{}, fmt.Errorf("get column error: %w", err)
	}

	if col.BoardID != boardID {
		return models.Column{}, ErrColumnNotInBoard
	}

	return col, nil
}

// resolveRelations rejects the whole operation when any assignee or tag id
// does not resolve, enumerating the missing ids.
func (ts *TaskService) resolveRelations(ctx context.Context, assignees, tags []uuid.UUID) error {
	if len(assignees) != 0 {
		users, err := ts.userRepo.ListByIDs(ctx, assignees)
		if err != nil {
			return fmt.Errorf("list users error: %w", err)
		}

		found := make(map[uuid.UUID]struct{}, len(users))
		for _, u := range users {
			found[u.ID] = struct{}{}
		}

		if missing := missingIDs(assignees, found); len(missing) != 0 {
			return models.Invalidf("users %s do not exist", strings.Join(missing, ", "))
		}
	}

	if len(tags) != 0 {
		resolved, err := ts.boardRepo.ListTagsByIDs(ctx, tags)
		if err != nil {
			return fmt.Errorf("list tags error: %w", err)
		}

		found := make(map[uuid.UUID]struct{}, len(resolved))
		for _, t := range resolved {
			found[t.ID] = struct{}{}
		}

		if missing := missingIDs(tags, found); len(missing) != 0 {
			return models.Invalidf("tags %s do not exist", strings.Join(missing, ", "))
		}
	}

	return nil
}

func missingIDs(ids []uuid.UUID, found map[uuid.UUID]struct{}) []string {
	var missing []string

	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id.String())
		}
	}

	return missing
}

func validateTask(name string, start, end *time.Time) error {
	if len(name) < minNameLen {
		return models.Invalidf("task name must be at least %d characters", minNameLen)
	}

	if start != nil && end != nil && start.After(*end) {
		return models.Invalidf("start date cannot be after end date")
	}

	return nil
}

func (ts *TaskService) invalidate(ctx context.Context, boardID uuid.UUID) {
	if err := ts.cache.Invalidate(ctx, boardID); err != nil {
		ts.lg.Errorf("invalidate board cache error: %s", err.Error())
	}
}
