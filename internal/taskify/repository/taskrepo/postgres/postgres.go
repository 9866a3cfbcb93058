package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"github.com/jorgebenaventee/taskify/internal/pkg/pgtools"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/repository/taskrepo"
)

type TasksPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (TasksPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg))
	if err != nil {
		return TasksPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		return TasksPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return TasksPostgresRepo{
		db: db,
	}, nil
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// CreateTask inserts the task and its assignee/tag join rows in one
// transaction. The ids on the request are assumed to be resolved already.
func (tr TasksPostgresRepo) CreateTask(ctx context.Context, t models.Task) (_ models.Task, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create task")
	}()

	query, args, err := psql.Insert("tasks").
		Columns("name", "description", "column_id", "ord", "start_date", "end_date").
		Values(t.Name, t.Description, t.ColumnID, t.Order, t.StartDate, t.EndDate).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Task{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&t.ID); err != nil {
		return models.Task{}, fmt.Errorf("scan error: %w", err)
	}

	if err = insertJoins(ctx, tx, t); err != nil {
		return models.Task{}, err
	}

	return t, nil
}

// UpdateTask replaces the task's scalar fields and join sets. Order and
// column are untouched, repositioning goes through ApplyMove.
func (tr TasksPostgresRepo) UpdateTask(ctx context.Context, t models.Task) (err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update task")
	}()

	query, args, err := psql.Update("tasks").
		Set("name", t.Name).
		Set("description", t.Description).
		Set("start_date", t.StartDate).
		Set("end_date", t.EndDate).
		Where(squirrel.Eq{"id": t.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = taskrepo.ErrNotFound

		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM user_tasks WHERE task_id = $1`, t.ID); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, t.ID); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if err = insertJoins(ctx, tx, t); err != nil {
		return err
	}

	return nil
}

// DeleteTask removes the task and its join rows and applies the dense
// renumbering of the tasks left behind, all in one transaction.
func (tr TasksPostgresRepo) DeleteTask(ctx context.Context, id uuid.UUID, renumber []taskrepo.Placement) (err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete task")
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM user_tasks WHERE task_id = $1`, id); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, id); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = taskrepo.ErrNotFound

		return err
	}

	if err = applyPlacements(ctx, tx, renumber); err != nil {
		return err
	}

	return nil
}

func (tr TasksPostgresRepo) GetTask(ctx context.Context, id uuid.UUID) (models.Task, error) {
	query, args, err := psql.Select("id", "name", "description", "column_id", "ord", "start_date", "end_date").
		From("tasks").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Task{}, fmt.Errorf("to sql error: %w", err)
	}

	var t models.Task

	if err := tr.db.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.Name, &t.Description, &t.ColumnID, &t.Order, &t.StartDate, &t.EndDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, taskrepo.ErrNotFound
		}

		return t, fmt.Errorf("scan error: %w", err)
	}

	if err := tr.loadJoins(ctx, []*models.Task{&t}); err != nil {
		return models.Task{}, err
	}

	return t, nil
}

// ListByColumn returns the column's tasks ordered by ord, with assignee and
// tag ids populated.
func (tr TasksPostgresRepo) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]models.Task, error) {
	query, args, err := psql.Select("id", "name", "description", "column_id", "ord", "start_date", "end_date").
		From("tasks").
		Where(squirrel.Eq{"column_id": columnID}).
		OrderBy("ord ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task

	for rows.Next() {
		var t models.Task

		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.ColumnID, &t.Order, &t.StartDate, &t.EndDate); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		tasks = append(tasks, t)
	}
	rows.Close()

	ptrs := make([]*models.Task, len(tasks))
	for i := range tasks {
		ptrs[i] = &tasks[i]
	}

	if err := tr.loadJoins(ctx, ptrs); err != nil {
		return nil, err
	}

	return tasks, nil
}

// MaxOrder returns the highest ord in the column, -1 when it has no tasks.
func (tr TasksPostgresRepo) MaxOrder(ctx context.Context, columnID uuid.UUID) (int, error) {
	var max int

	err := tr.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(ord), -1) FROM tasks WHERE column_id = $1`, columnID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return max, nil
}

// ApplyMove persists a reorder plan. Every row update rides the same
// transaction so a failure cannot leave a column with gaps or duplicates.
func (tr TasksPostgresRepo) ApplyMove(ctx context.Context, placements []taskrepo.Placement) (err error) {
	if len(placements) == 0 {
		return nil
	}

	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "apply move")
	}()

	if err = applyPlacements(ctx, tx, placements); err != nil {
		return err
	}

	return nil
}

func applyPlacements(ctx context.Context, tx pgx.Tx, placements []taskrepo.Placement) error {
	for _, p := range placements {
		ct, err := tx.Exec(ctx,
			`UPDATE tasks SET column_id = $1, ord = $2 WHERE id = $3`,
			p.ColumnID, p.Order, p.TaskID)
		if err != nil {
			return fmt.Errorf("exec error: %w", err)
		}

		if ct.RowsAffected() == 0 {
			return taskrepo.ErrNotFound
		}
	}

	return nil
}

func insertJoins(ctx context.Context, tx pgx.Tx, t models.Task) error {
	for _, userID := range t.AssignedTo {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_tasks (user_id, task_id) VALUES ($1, $2)`, userID, t.ID); err != nil {
			return fmt.Errorf("exec error: %w", err)
		}
	}

	for _, tagID := range t.TagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)`, t.ID, tagID); err != nil {
			return fmt.Errorf("exec error: %w", err)
		}
	}

	return nil
}

func (tr TasksPostgresRepo) loadJoins(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Task, len(tasks))
	ids := make([]uuid.UUID, 0, len(tasks))

	for _, t := range tasks {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	query, args, err := psql.Select("task_id", "user_id").
		From("user_tasks").
		Where(squirrel.Eq{"task_id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tr.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, userID uuid.UUID

		if err := rows.Scan(&taskID, &userID); err != nil {
			return fmt.Errorf("scan error: %w", err)
		}

		if t, ok := byID[taskID]; ok {
			t.AssignedTo = append(t.AssignedTo, userID)
		}
	}
	rows.Close()

	query, args, err = psql.Select("task_id", "tag_id").
		From("task_tags").
		Where(squirrel.Eq{"task_id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	rows, err = tr.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, tagID uuid.UUID

		if err := rows.Scan(&taskID, &tagID); err != nil {
			return fmt.Errorf("scan error: %w", err)
		}

		if t, ok := byID[taskID]; ok {
			t.TagIDs = append(t.TagIDs, tagID)
		}
	}

	return nil
}

func (tr TasksPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		tr.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}
