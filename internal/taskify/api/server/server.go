package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/authservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/boardservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/memberservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/tagservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/taskservice"
	"github.com/jorgebenaventee/taskify/pkg/logger"
	"github.com/rs/cors"
)

type Server struct {
	serv          *http.Server
	authService   AuthService
	boardService  BoardService
	taskService   TaskService
	tagService    TagService
	memberService MemberService
}

type AuthService interface {
	Register(context.Context, authservice.RegisterRequest) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type BoardService interface {
	Boards(ctx context.Context, userID uuid.UUID) ([]boardservice.BoardResponse, error)
	Board(ctx context.Context, userID, boardID uuid.UUID) (boardservice.BoardResponse, error)
	CreateBoard(ctx context.Context, userID uuid.UUID, name string) (models.Board, error)
	DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error
	Columns(ctx context.Context, userID, boardID uuid.UUID) ([]models.ColumnView, error)
	CreateColumn(ctx context.Context, userID uuid.UUID, req boardservice.CreateColumnRequest) (models.Column, error)
	EditColumn(ctx context.Context, userID uuid.UUID, req boardservice.EditColumnRequest) error
	DeleteColumn(ctx context.Context, userID, columnID uuid.UUID) error
}

type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req taskservice.CreateTaskRequest) (models.Task, error)
	EditTask(ctx context.Context, userID, taskID uuid.UUID, req taskservice.EditTaskRequest) (models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	MoveTask(ctx context.Context, userID uuid.UUID, req taskservice.MoveTaskRequest) error
}

type TagService interface {
	TagsInBoard(ctx context.Context, userID, boardID uuid.UUID) ([]models.Tag, error)
	Tag(ctx context.Context, userID, tagID uuid.UUID) (models.Tag, error)
	CreateTag(ctx context.Context, userID uuid.UUID, req tagservice.TagRequest) (models.Tag, error)
	UpdateTag(ctx context.Context, userID, tagID uuid.UUID, req tagservice.TagRequest) (models.Tag, error)
	DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error
}

type MemberService interface {
	UsersInBoard(ctx context.Context, userID, boardID uuid.UUID) ([]models.User, error)
	AddUser(ctx context.Context, currentUserID uuid.UUID, req memberservice.AddUserRequest) (models.Membership, error)
	RemoveUser(ctx context.Context, currentUserID, userID, boardID uuid.UUID) error
}

func New(cfg config.Config, bs BoardService, ts TaskService, tgs TagService,
	ms MemberService, as AuthService, lg logger.Logger,
) *Server {
	var s Server

	s.authService = as
	s.boardService = bs
	s.taskService = ts
	s.tagService = tgs
	s.memberService = ms

	r := chi.NewRouter()
	r.Use(loggingMiddleware(lg))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", s.postLogin)
		api.Post("/auth/register", s.postRegister)

		api.Group(func(pr chi.Router) {
			pr.Use(authMiddleware(cfg.Auth.Secret))

			pr.Route("/board", func(r chi.Router) {
				r.Get("/", s.getBoards)
				r.Post("/", s.postBoard)
				r.Get("/{boardID}", s.getBoard)
				r.Delete("/{boardID}", s.deleteBoard)
			})

			pr.Route("/column", func(r chi.Router) {
				r.Get("/", s.getColumns)
				r.Post("/", s.postColumn)
				r.Put("/{columnID}", s.putColumn)
				r.Delete("/{columnID}", s.deleteColumn)
			})

			pr.Route("/task", func(r chi.Router) {
				r.Post("/", s.postTask)
				r.Put("/move", s.putTaskMove)
				r.Put("/{taskID}", s.putTask)
				r.Delete("/{taskID}", s.deleteTask)
			})

			pr.Route("/tag", func(r chi.Router) {
				r.Get("/", s.getTags)
				r.Post("/", s.postTag)
				r.Get("/{tagID}", s.getTag)
				r.Put("/{tagID}", s.putTag)
				r.Delete("/{tagID}", s.deleteTag)
			})

			pr.Route("/userboard", func(r chi.Router) {
				r.Get("/{boardID}", s.getUsersInBoard)
				r.Post("/", s.postUserBoard)
				r.Delete("/{boardID}/{userID}", s.deleteUserBoard)
			})
		})
	})

	serv := &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Server.Addr,
		Handler:      cors.AllowAll().Handler(r),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	s.serv = serv

	return &s
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}
