package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"github.com/jorgebenaventee/taskify/internal/taskify/api/server"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/boardcache/redis"
	br "github.com/jorgebenaventee/taskify/internal/taskify/repository/boardrepo/postgres"
	tr "github.com/jorgebenaventee/taskify/internal/taskify/repository/taskrepo/postgres"
	ur "github.com/jorgebenaventee/taskify/internal/taskify/repository/userrepo/postgres"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/authservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/boardservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/memberservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/tagservice"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/taskservice"
	"github.com/jorgebenaventee/taskify/pkg/logger"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type TaskifyApp struct {
	s   Server
	lg  logger.Logger
	cfg config.Config
}

func New(ctx context.Context, cfg config.Config) (TaskifyApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return TaskifyApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	userRepo, err := ur.New(ctx, cfg.PostgresDB)
	if err != nil {
		return TaskifyApp{}, fmt.Errorf("postgres user repo initializing error: %w", err)
	}

	boardRepo, err := br.New(ctx, cfg.PostgresDB)
	if err != nil {
		return TaskifyApp{}, fmt.Errorf("postgres board repo initializing error: %w", err)
	}

	taskRepo, err := tr.New(ctx, cfg.PostgresDB)
	if err != nil {
		return TaskifyApp{}, fmt.Errorf("postgres task repo initializing error: %w", err)
	}

	boardCache, err := redis.New(ctx, cfg.RedisCache)
	if err != nil {
		return TaskifyApp{}, fmt.Errorf("redis board cache initializing error: %w", err)
	}

	authService := authservice.New(userRepo, cfg.Auth)
	memberService := memberservice.New(boardRepo, userRepo, lg)
	boardService := boardservice.New(boardRepo, taskRepo, boardCache, memberService, userRepo, lg)
	tagService := tagservice.New(boardRepo, boardCache, memberService, lg)
	taskService := taskservice.New(taskRepo, boardRepo, userRepo, memberService, boardCache, lg)

	s := server.New(cfg, boardService, taskService, tagService, memberService, authService, lg)

	return TaskifyApp{
		s:   s,
		lg:  lg,
		cfg: cfg,
	}, nil
}

func (ta *TaskifyApp) Run(ctx context.Context) {
	ta.lg.Infof("STARTED SERVER ON %s", ta.cfg.Server.Addr)

	go func() {
		if err := ta.s.Start(ctx); err != nil {
			ta.lg.Errorf("server start error: %s", err.Error())
			ctx.Done()

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ta.Stop(ctxS); err != nil { //nolint:contextcheck
		ta.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (ta *TaskifyApp) Stop(ctx context.Context) error {
	if err := ta.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	ta.lg.Info("Shutdowned successfully")

	return nil
}
