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
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/userrepo"
)

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (UsersPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg))
	if err != nil {
		return UsersPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		return UsersPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return UsersPostgresRepo{
		db: db,
	}, nil
}

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User) (_ models.User, err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("users").
		Columns("username", "password_hash", "is_super_admin").
		Values(u.Username, u.PasswordHash, u.IsSuperAdmin).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&u.ID); err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) {
			switch target.Code { //nolint:gocritic
			case "23505":
				err = userrepo.ErrAlreadyExists

				return models.User{}, err
			}
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"id": id})
}

func (ur UsersPostgresRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"username": username})
}

func (ur UsersPostgresRepo) getUser(ctx context.Context, where squirrel.Eq) (models.User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "username", "password_hash", "is_super_admin").
		From("users").
		Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	var u models.User

	if err := ur.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.IsSuperAdmin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, userrepo.ErrNotFound
		}

		return u, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "username", "password_hash", "is_super_admin").
		From("users").
		Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := ur.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, len(ids))

	for rows.Next() {
		var u models.User

		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsSuperAdmin); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		users = append(users, u)
	}

	return users, nil
}

func (ur UsersPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		ur.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}
