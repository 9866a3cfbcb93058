package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"github.com/jorgebenaventee/taskify/internal/pkg/redistools"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/redis/go-redis/v9"
)

var ErrNotCached = errors.New("board view not cached")

// BoardCache keeps the assembled column/task view of a board so the read
// path skips the fan-out queries. Any mutation of the board invalidates it.
type BoardCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(ctx context.Context, cfg config.RedisCache) (BoardCache, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := redistools.Connect(ctx, rdb); err != nil {
		return BoardCache{}, fmt.Errorf("connect error: %w", err)
	}

	return BoardCache{
		rdb:     rdb,
		expTime: cfg.ExpTime,
	}, nil
}

func (bc BoardCache) GetView(ctx context.Context, boardID uuid.UUID) ([]models.ColumnView, error) {
	viewJSON, err := bc.rdb.Get(ctx, key(boardID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotCached
	} else if err != nil {
		return nil, fmt.Errorf("get error: %w", err)
	}

	var view []models.ColumnView

	if err := json.Unmarshal([]byte(viewJSON), &view); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return view, nil
}

func (bc BoardCache) SetView(ctx context.Context, boardID uuid.UUID, view []models.ColumnView) error {
	viewJSON, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if _, err := bc.rdb.Set(ctx, key(boardID), viewJSON, bc.expTime).Result(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (bc BoardCache) Invalidate(ctx context.Context, boardID uuid.UUID) error {
	if _, err := bc.rdb.Del(ctx, key(boardID)).Result(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}

func key(boardID uuid.UUID) string {
	return "board:" + boardID.String() + ":view"
}
