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

func (br BoardsPostgresRepo) CreateColumn(ctx context.Context, c models.Column) (models.Column, error) {
	query, args, err := psql.Insert("columns").
		Columns("name", "board_id", "ord").
		Values(c.Name, c.BoardID, c.Order).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Column{}, fmt.Errorf("to sql error: %w", err)
	}

	if err := br.db.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
		return models.Column{}, fmt.Errorf("scan error: %w", err)
	}

	return c, nil
}

func (br BoardsPostgresRepo) GetColumn(ctx context.Context, id uuid.UUID) (models.Column, error) {
	query, args, err := psql.Select("id", "name", "board_id", "ord").
		From("columns").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Column{}, fmt.Errorf("to sql error: %w", err)
	}

	var c models.Column

	if err := br.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.BoardID, &c.Order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, boardrepo.ErrColumnNotFound
		}

		return c, fmt.Errorf("scan error: %w", err)
	}

	return c, nil
}

func (br BoardsPostgresRepo) ListColumns(ctx context.Context, boardID uuid.UUID) ([]models.Column, error) {
	query, args, err := psql.Select("id", "name", "board_id", "ord").
		From("columns").
		Where(squirrel.Eq{"board_id": boardID}).
		OrderBy("ord ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := br.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var cols []models.Column

	for rows.Next() {
		var c models.Column

		if err := rows.Scan(&c.ID, &c.Name, &c.BoardID, &c.Order); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		cols = append(cols, c)
	}

	return cols, nil
}

// RenameColumn updates the name of a column only when it belongs to the
// claimed board, the cross-board tampering guard.
func (br BoardsPostgresRepo) RenameColumn(ctx context.Context, id, boardID uuid.UUID, name string) error {
	query, args, err := psql.Update("columns").
		Set("name", name).
		Where(squirrel.Eq{"id": id, "board_id": boardID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := br.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return boardrepo.ErrColumnNotFound
	}

	return nil
}

// DeleteColumn removes the column's tasks and their join rows first, then
// the column, in one transaction.
func (br BoardsPostgresRepo) DeleteColumn(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete column")
	}()

	steps := []string{
		`DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE column_id = $1)`,
		`DELETE FROM user_tasks WHERE task_id IN (SELECT id FROM tasks WHERE column_id = $1)`,
		`DELETE FROM tasks WHERE column_id = $1`,
	}

	for _, q := range steps {
		if _, err = tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("exec error: %w", err)
		}
	}

	ct, err := tx.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = boardrepo.ErrColumnNotFound

		return err
	}

	return nil
}
