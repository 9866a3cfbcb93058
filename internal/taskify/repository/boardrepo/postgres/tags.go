package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jorgebenaventee/taskify/internal/pkg/pgtools"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/boardrepo"
)

func (br BoardsPostgresRepo) CreateTag(ctx context.Context, t models.Tag) (models.Tag, error) {
	query, args, err := psql.Insert("tags").
		Columns("name", "color", "board_id").
		Values(t.Name, t.Color, t.BoardID).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Tag{}, fmt.Errorf("to sql error: %w", err)
	}

	if err := br.db.QueryRow(ctx, query, args...).Scan(&t.ID); err != nil {
		return models.Tag{}, fmt.Errorf("scan error: %w", err)
	}

	return t, nil
}

func (br BoardsPostgresRepo) UpdateTag(ctx context.Context, t models.Tag) error {
	query, args, err := psql.Update("tags").
		Set("name", t.Name).
		Set("color", t.Color).
		Where(squirrel.Eq{"id": t.ID, "board_id": t.BoardID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := br.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return boardrepo.ErrTagNotFound
	}

	return nil
}

// DeleteTag detaches the tag from every task before removing it.
func (br BoardsPostgresRepo) DeleteTag(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete tag")
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM task_tags WHERE tag_id = $1`, id); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = boardrepo.ErrTagNotFound

		return err
	}

	return nil
}

func (br BoardsPostgresRepo) GetTag(ctx context.Context, id uuid.UUID) (models.Tag, error) {
	query, args, err := psql.Select("id", "name", "color", "board_id").
		From("tags").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Tag{}, fmt.Errorf("to sql error: %w", err)
	}

	var t models.Tag

	if err := br.db.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Name, &t.Color, &t.BoardID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, boardrepo.ErrTagNotFound
		}

		return t, fmt.Errorf("scan error: %w", err)
	}

	return t, nil
}

func (br BoardsPostgresRepo) ListTags(ctx context.Context, boardID uuid.UUID) ([]models.Tag, error) {
	return br.listTags(ctx, squirrel.Eq{"board_id": boardID})
}

func (br BoardsPostgresRepo) ListTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return br.listTags(ctx, squirrel.Eq{"id": ids})
}

func (br BoardsPostgresRepo) listTags(ctx context.Context, where squirrel.Eq) ([]models.Tag, error) {
	query, args, err := psql.Select("id", "name", "color", "board_id").
		From("tags").
		Where(where).
		OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := br.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag

	for rows.Next() {
		var t models.Tag

		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.BoardID); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		tags = append(tags, t)
	}

	return tags, nil
}
