package boardservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/pkg/logger"
)

type BoardRepo interface {
	CreateBoard(ctx context.Context, b models.Board, ownerID uuid.UUID) (models.Board, error)
	GetBoard(context.Context, uuid.UUID) (models.Board, error)
	ListBoards(ctx context.Context, ids []uuid.UUID) ([]models.Board, error)
	DeleteBoard(context.Context, uuid.UUID) error
	ListMemberships(ctx context.Context, userID uuid.UUID) ([]models.Membership, error)
	CreateColumn(context.Context, models.Column) (models.Column, error)
	GetColumn(context.Context, uuid.UUID) (models.Column, error)
	ListColumns(ctx context.Context, boardID uuid.UUID) ([]models.Column, error)
	RenameColumn(ctx context.Context, id, boardID uuid.UUID, name string) error
	DeleteColumn(context.Context, uuid.UUID) error
	ListTagsByIDs(context.Context, []uuid.UUID) ([]models.Tag, error)
}

type TaskRepo interface {
	ListByColumn(ctx context.Context, columnID uuid.UUID) ([]models.Task, error)
}

type Cache interface {
	GetView(ctx context.Context, boardID uuid.UUID) ([]models.ColumnView, error)
	SetView(ctx context.Context, boardID uuid.UUID, view []models.ColumnView) error
	Invalidate(ctx context.Context, boardID uuid.UUID) error
}

type Gate interface {
	RequireMember(ctx context.Context, userID, boardID uuid.UUID) (models.Role, error)
	RequireAdmin(ctx context.Context, userID, boardID uuid.UUID) error
}

type Users interface {
	GetUser(context.Context, uuid.UUID) (models.User, error)
}

type BoardService struct {
	boardRepo BoardRepo
	taskRepo  TaskRepo
	cache     Cache
	gate      Gate
	users     Users
	lg        logger.Logger
}

func New(boardRepo BoardRepo, taskRepo TaskRepo, cache Cache, gate Gate, users Users, lg logger.Logger) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		taskRepo:  taskRepo,
		cache:     cache,
		gate:      gate,
		users:     users,
		lg:        lg,
	}
}

// Boards returns the boards the user belongs to, every board for a super
// admin.
func (bs *BoardService) Boards(ctx context.Context, userID uuid.UUID) ([]BoardResponse, error) {
	u, err := bs.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user error: %w", err)
	}

	if u.IsSuperAdmin {
		boards, err := bs.boardRepo.ListBoards(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("list boards error: %w", err)
		}

		resp := make([]BoardResponse, 0, len(boards))
		for _, b := range boards {
			resp = append(resp, BoardResponse{Board: b, IsAdmin: true})
		}

		return resp, nil
	}

	ms, err := bs.boardRepo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships error: %w", err)
	}

	if len(ms) == 0 {
		return []BoardResponse{}, nil
	}

	roleByBoard := make(map[uuid.UUID]models.Role, len(ms))
	ids := make([]uuid.UUID, 0, len(ms))

	for _, m := range ms {
		roleByBoard[m.BoardID] = m.Role
		ids = append(ids, m.BoardID)
	}

	boards, err := bs.boardRepo.ListBoards(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list boards error: %w", err)
	}

	resp := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		resp = append(resp, BoardResponse{Board: b, IsAdmin: roleByBoard[b.ID] == models.RoleAdmin})
	}

	return resp, nil
}

func (bs *BoardService) Board(ctx context.Context, userID, boardID uuid.UUID) (BoardResponse, error) {
	role, err := bs.gate.RequireMember(ctx, userID, boardID)
	if err != nil {
		return BoardResponse{}, err
	}

	b, err := bs.boardRepo.GetBoard(ctx, boardID)
	if err != nil {
		return BoardResponse{}, fmt.Errorf("get board error: %w", err)
	}

	return BoardResponse{Board: b, IsAdmin: role == models.RoleAdmin}, nil
}

// CreateBoard makes the creator the board's ADMIN.
func (bs *BoardService) CreateBoard(ctx context.Context, userID uuid.UUID, name string) (models.Board, error) {
	if name == "" {
		return models.Board{}, models.Invalidf("board name is required")
	}

	b, err := bs.boardRepo.CreateBoard(ctx, models.Board{Name: name}, userID)
	if err != nil {
		return models.Board{}, fmt.Errorf("create board error: %w", err)
	}

	bs.lg.Infof("board %s created by user %s", b.ID, userID)

	return b, nil
}

func (bs *BoardService) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error {
	if err := bs.gate.RequireAdmin(ctx, userID, boardID); err != nil {
		return err
	}

	if err := bs.boardRepo.DeleteBoard(ctx, boardID); err != nil {
		return fmt.Errorf("delete board error: %w", err)
	}

	if err := bs.cache.Invalidate(ctx, boardID); err != nil {
		bs.lg.Errorf("invalidate board cache error: %s", err.Error())
	}

	bs.lg.Infof("board %s deleted by user %s", boardID, userID)

	return nil
}

// Columns assembles the full board view: columns in order, each with its
// tasks in order, tags resolved to full objects. Served from cache when
// fresh.
func (bs *BoardService) Columns(ctx context.Context, userID, boardID uuid.UUID) ([]models.ColumnView, error) {
	if _, err := bs.gate.RequireMember(ctx, userID, boardID); err != nil {
		return nil, err
	}

	if view, err := bs.cache.GetView(ctx, boardID); err == nil {
		bs.lg.Debugf("board view cache hit for %s", boardID)

		return view, nil
	}

	cols, err := bs.boardRepo.ListColumns(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list columns error: %w", err)
	}

	tagIDs := make(map[uuid.UUID]struct{})
	tasksByColumn := make(map[uuid.UUID][]models.Task, len(cols))

	for _, col := range cols {
		tasks, err := bs.taskRepo.ListByColumn(ctx, col.ID)
		if err != nil {
			return nil, fmt.Errorf("list tasks error: %w", err)
		}

		tasksByColumn[col.ID] = tasks

		for _, t := range tasks {
			for _, id := range t.TagIDs {
				tagIDs[id] = struct{}{}
			}
		}
	}

	ids := make([]uuid.UUID, 0, len(tagIDs))
	for id := range tagIDs {
		ids = append(ids, id)
	}

	tags, err := bs.boardRepo.ListTagsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list tags error: %w", err)
	}

	tagByID := make(map[uuid.UUID]models.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}

	view := make([]models.ColumnView, 0, len(cols))

	for _, col := range cols {
		cv := models.ColumnView{Column: col, Tasks: make([]models.TaskView, 0, len(tasksByColumn[col.ID]))}

		for _, t := range tasksByColumn[col.ID] {
			tv := models.TaskView{Task: t, Tags: make([]models.Tag, 0, len(t.TagIDs))}
			for _, id := range t.TagIDs {
				if tag, ok := tagByID[id]; ok {
					tv.Tags = append(tv.Tags, tag)
				}
			}

			cv.Tasks = append(cv.Tasks, tv)
		}

		view = append(view, cv)
	}

	if err := bs.cache.SetView(ctx, boardID, view); err != nil {
		bs.lg.Errorf("set board view cache error: %s", err.Error())
	}

	return view, nil
}

// CreateColumn appends the column at the end of the board.
func (bs *BoardService) CreateColumn(ctx context.Context, userID uuid.UUID, req CreateColumnRequest) (models.Column, error) {
	if err := bs.gate.RequireAdmin(ctx, userID, req.BoardID); err != nil {
		return models.Column{}, err
	}

	if req.Name == "" {
		return models.Column{}, models.Invalidf("column name is required")
	}

	cols, err := bs.boardRepo.ListColumns(ctx, req.BoardID)
	if err != nil {
		return models.Column{}, fmt.Errorf("list columns error: %w", err)
	}

	nextOrder := 0
	for _, c := range cols {
		if c.Order >= nextOrder {
			nextOrder = c.Order + 1
		}
	}

	col, err := bs.boardRepo.CreateColumn(ctx, models.Column{
		Name:    req.Name,
		BoardID: req.BoardID,
		Order:   nextOrder,
	})
	if err != nil {
		return models.Column{}, fmt.Errorf("create column error: %w", err)
	}

	if err := bs.cache.Invalidate(ctx, req.BoardID); err != nil {
		bs.lg.Errorf("invalidate board cache error: %s", err.Error())
	}

	return col, nil
}

func (bs *BoardService) EditColumn(ctx context.Context, userID uuid.UUID, req EditColumnRequest) error {
	if err := bs.gate.RequireAdmin(ctx, userID, req.BoardID); err != nil {
		return err
	}

	if req.Name == "" {
		return models.Invalidf("column name is required")
	}

	if err := bs.boardRepo.RenameColumn(ctx, req.ColumnID, req.BoardID, req.Name); err != nil {
		return fmt.Errorf("rename column error: %w", err)
	}

	if err := bs.cache.Invalidate(ctx, req.BoardID); err != nil {
		bs.lg.Errorf("invalidate board cache error: %s", err.Error())
	}

	return nil
}

func (bs *BoardService) DeleteColumn(ctx context.Context, userID, columnID uuid.UUID) error {
	col, err := bs.boardRepo.GetColumn(ctx, columnID)
	if err != nil {
		return fmt.Errorf("get column error: %w", err)
	}

	if err := bs.gate.RequireAdmin(ctx, userID, col.BoardID); err != nil {
		return err
	}

	if err := bs.boardRepo.DeleteColumn(ctx, columnID); err != nil {
		return fmt.Errorf("delete column error: %w", err)
	}

	if err := bs.cache.Invalidate(ctx, col.BoardID); err != nil {
		bs.lg.Errorf("invalidate board cache error: %s", err.Error())
	}

	return nil
}
