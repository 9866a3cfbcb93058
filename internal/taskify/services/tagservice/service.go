package tagservice

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/pkg/logger"
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Repository interface {
	CreateTag(context.Context, models.Tag) (models.Tag, error)
	UpdateTag(context.Context, models.Tag) error
	DeleteTag(context.Context, uuid.UUID) error
	GetTag(context.Context, uuid.UUID) (models.Tag, error)
	ListTags(ctx context.Context, boardID uuid.UUID) ([]models.Tag, error)
}

type Gate interface {
	RequireMember(ctx context.Context, userID, boardID uuid.UUID) (models.Role, error)
	RequireAdmin(ctx context.Context, userID, boardID uuid.UUID) error
}

type Cache interface {
	Invalidate(ctx context.Context, boardID uuid.UUID) error
}

// TagService manages a board's tag palette. Reads are open to any member,
// mutations to admins only.
type TagService struct {
	tagRepo Repository
	cache   Cache
	gate    Gate
	lg      logger.Logger
}

func New(tagRepo Repository, cache Cache, gate Gate, lg logger.Logger) *TagService {
	return &TagService{
		tagRepo: tagRepo,
		cache:   cache,
		gate:    gate,
		lg:      lg,
	}
}

func (ts *TagService) TagsInBoard(ctx context.Context, userID, boardID uuid.UUID) ([]models.Tag, error) {
	if _, err := ts.gate.RequireMember(ctx, userID, boardID); err != nil {
		return nil, err
	}

	tags, err := ts.tagRepo.ListTags(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list tags error: %w", err)
	}

	return tags, nil
}

func (ts *TagService) Tag(ctx context.Context, userID, tagID uuid.UUID) (models.Tag, error) {
	t, err := ts.tagRepo.GetTag(ctx, tagID)
	if err != nil {
		return models.Tag{}, fmt.Errorf("get tag error: %w", err)
	}

	if _, err := ts.gate.RequireMember(ctx, userID, t.BoardID); err != nil {
		return models.Tag{}, err
	}

	return t, nil
}

func (ts *TagService) CreateTag(ctx context.Context, userID uuid.UUID, req TagRequest) (models.Tag, error) {
	if err := ts.gate.RequireAdmin(ctx, userID, req.BoardID); err != nil {
		return models.Tag{}, err
	}

	if err := validate(req); err != nil {
		return models.Tag{}, err
	}

	t, err := ts.tagRepo.CreateTag(ctx, models.Tag{
		Name:    req.Name,
		Color:   req.Color,
		BoardID: req.BoardID,
	})
	if err != nil {
		return models.Tag{}, fmt.Errorf("create tag error: %w", err)
	}

	ts.invalidate(ctx, req.BoardID)

	return t, nil
}

func (ts *TagService) UpdateTag(ctx context.Context, userID, tagID uuid.UUID, req TagRequest) (models.Tag, error) {
	existing, err := ts.tagRepo.GetTag(ctx, tagID)
	if err != nil {
		return models.Tag{}, fmt.Errorf("get tag error: %w", err)
	}

	if err := ts.gate.RequireAdmin(ctx, userID, existing.BoardID); err != nil {
		return models.Tag{}, err
	}

	if req.BoardID != existing.BoardID {
		return models.Tag{}, models.Invalidf("tag %s does not belong to board %s", tagID, req.BoardID)
	}

	if err := validate(req); err != nil {
		return models.Tag{}, err
	}

	t := models.Tag{
		ID:      tagID,
		Name:    req.Name,
		Color:   req.Color,
		BoardID: existing.BoardID,
	}

	if err := ts.tagRepo.UpdateTag(ctx, t); err != nil {
		return models.Tag{}, fmt.Errorf("update tag error: %w", err)
	}

	ts.invalidate(ctx, existing.BoardID)

	return t, nil
}

func (ts *TagService) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error {
	t, err := ts.tagRepo.GetTag(ctx, tagID)
	if err != nil {
		return fmt.Errorf("get tag error: %w", err)
	}

	if err := ts.gate.RequireAdmin(ctx, userID, t.BoardID); err != nil {
		return err
	}

	if err := ts.tagRepo.DeleteTag(ctx, tagID); err != nil {
		return fmt.Errorf("delete tag error: %w", err)
	}

	ts.invalidate(ctx, t.BoardID)

	return nil
}

func (ts *TagService) invalidate(ctx context.Context, boardID uuid.UUID) {
	if err := ts.cache.Invalidate(ctx, boardID); err != nil {
		ts.lg.Errorf("invalidate board cache error: %s", err.Error())
	}
}

func validate(req TagRequest) error {
	if req.Name == "" {
		return models.Invalidf("tag name is required")
	}

	if !colorRe.MatchString(req.Color) {
		return models.Invalidf("color %q is not a hex color", req.Color)
	}

	return nil
}
