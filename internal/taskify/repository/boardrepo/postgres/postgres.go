package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"github.com/jorgebenaventee/taskify/internal/pkg/pgtools"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/boardrepo"
)

type BoardsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (BoardsPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg))
	if err != nil {
		return BoardsPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		return BoardsPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return BoardsPostgresRepo{
		db: db,
	}, nil
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// CreateBoard inserts the board and its owner's ADMIN membership in one
// transaction.
func (br BoardsPostgresRepo) CreateBoard(ctx context.Context, b models.Board, ownerID uuid.UUID) (_ models.Board, err error) {
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return models.Board{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create board")
	}()

	query, args, err := psql.Insert("boards").
		Columns("name", "image").
		Values(b.Name, b.Image).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Board{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		return models.Board{}, fmt.Errorf("scan error: %w", err)
	}

	query, args, err = psql.Insert("user_boards").
		Columns("user_id", "board_id", "user_role").
		Values(ownerID, b.ID, models.RoleAdmin).ToSql()
	if err != nil {
		return models.Board{}, fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return models.Board{}, fmt.Errorf("exec error: %w", err)
	}

	return b, nil
}

func (br BoardsPostgresRepo) GetBoard(ctx context.Context, id uuid.UUID) (models.Board, error) {
	query, args, err := psql.Select("id", "name", "image").
		From("boards").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Board{}, fmt.Errorf("to sql error: %w", err)
	}

	var b models.Board

	if err := br.db.QueryRow(ctx, query, args...).Scan(&b.ID, &b.Name, &b.Image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return b, boardrepo.ErrNotFound
		}

		return b, fmt.Errorf("scan error: %w", err)
	}

	return b, nil
}

func (br BoardsPostgresRepo) ListBoards(ctx context.Context, ids []uuid.UUID) ([]models.Board, error) {
	sb := psql.Select("id", "name", "image").
		From("boards").
		OrderBy("name ASC")

	if ids != nil {
		sb = sb.Where(squirrel.Eq{"id": ids})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := br.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	boards := make([]models.Board, 0, len(ids))

	for rows.Next() {
		var b models.Board

		if err := rows.Scan(&b.ID, &b.Name, &b.Image); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		boards = append(boards, b)
	}

	return boards, nil
}

// DeleteBoard removes the board and everything hanging off it. The foreign
// keys are RESTRICT, so children go first: task joins, tasks, tags, columns,
// memberships, then the board itself, all in one transaction.
func (br BoardsPostgresRepo) DeleteBoard(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete board")
	}()

	steps := []string{
		`DELETE FROM task_tags WHERE task_id IN
			(SELECT t.id FROM tasks t JOIN columns c ON t.column_id = c.id WHERE c.board_id = $1)`,
		`DELETE FROM user_tasks WHERE task_id IN
			(SELECT t.id FROM tasks t JOIN columns c ON t.column_id = c.id WHERE c.board_id = $1)`,
		`DELETE FROM tasks WHERE column_id IN (SELECT id FROM columns WHERE board_id = $1)`,
		`DELETE FROM tags WHERE board_id = $1`,
		`DELETE FROM columns WHERE board_id = $1`,
		`DELETE FROM user_boards WHERE board_id = $1`,
	}

	for _, q := range steps {
		if _, err = tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("exec error: %w", err)
		}
	}

	ct, err := tx.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = boardrepo.ErrNotFound

		return err
	}

	return nil
}

func (br BoardsPostgresRepo) GetMembership(ctx context.Context, userID, boardID uuid.UUID) (models.Membership, error) {
	query, args, err := psql.Select("user_id", "board_id", "user_role").
		From("user_boards").
		Where(squirrel.Eq{"user_id": userID, "board_id": boardID}).ToSql()
	if err != nil {
		return models.Membership{}, fmt.Errorf("to sql error: %w", err)
	}

	var m models.Membership

	if err := br.db.QueryRow(ctx, query, args...).Scan(&m.UserID, &m.BoardID, &m.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m, boardrepo.ErrMembershipNotFound
		}

		return m, fmt.Errorf("scan error: %w", err)
	}

	return m, nil
}

func (br BoardsPostgresRepo) ListMemberships(ctx context.Context, userID uuid.UUID) ([]models.Membership, error) {
	query, args, err := psql.Select("user_id", "board_id", "user_role").
		From("user_boards").
		Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := br.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var ms []models.Membership

	for rows.Next() {
		var m models.Membership

		if err := rows.Scan(&m.UserID, &m.BoardID, &m.Role); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		ms = append(ms, m)
	}

	return ms, nil
}

func (br BoardsPostgresRepo) AddMembership(ctx context.Context, m models.Membership) error {
	query, args, err := psql.Insert("user_boards").
		Columns("user_id", "board_id", "user_role").
		Values(m.UserID, m.BoardID, m.Role).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := br.db.Exec(ctx, query, args...); err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) {
			switch target.Code { //nolint:gocritic
			case "23505":
				return boardrepo.ErrAlreadyMember
			}
		}

		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (br BoardsPostgresRepo) RemoveMembership(ctx context.Context, userID, boardID uuid.UUID) error {
	query, args, err := psql.Delete("user_boards").
		Where(squirrel.Eq{"user_id": userID, "board_id": boardID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := br.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return boardrepo.ErrMembershipNotFound
	}

	return nil
}

func (br BoardsPostgresRepo) ListMembers(ctx context.Context, boardID uuid.UUID) ([]models.User, error) {
	query, args, err := psql.Select("u.id", "u.username", "u.password_hash", "u.is_super_admin").
		From("user_boards ub").
		Join("users u ON u.id = ub.user_id").
		Where(squirrel.Eq{"ub.board_id": boardID}).
		OrderBy("u.username ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := br.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var users []models.User

	for rows.Next() {
		var u models.User

		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsSuperAdmin); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		users = append(users, u)
	}

	return users, nil
}

func (br BoardsPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		br.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}
