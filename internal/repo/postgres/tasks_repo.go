package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/tasktracker/internal/domain/task"
	"github.com/geocoder89/tasktracker/internal/observability"
	"github.com/geocoder89/tasktracker/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id::text, title, description, status, priority, deadline, user_id::text, created_at, updated_at`

type TasksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTasksRepo(pool *pgxpool.Pool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{pool: pool, prom: prom}
}

func (r *TasksRepo) Create(ctx context.Context, userID string, req task.CreateTaskRequest) (task.Task, error) {
	t := task.NewFromCreateRequest(userID, req)

	err := r.prom.ObserveDB("tasks.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO tasks (id, user_id, title, description, status, priority, deadline, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			t.ID, t.UserID, t.Title, t.Description, nullableStatus(t.Status), t.Priority, t.Deadline, t.CreatedAt, t.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

// ListByUser returns every task owned by userID in insertion order.
func (r *TasksRepo) ListByUser(ctx context.Context, userID string) ([]task.Task, error) {
	out := make([]task.Task, 0)

	err := r.prom.ObserveDB("tasks.list_by_user", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY seq ASC`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			out = append(out, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *TasksRepo) GetOwned(ctx context.Context, id, userID string) (task.Task, error) {
	if !utils.IsUUID(id) {
		return task.Task{}, task.ErrNotFound
	}

	var t task.Task

	err := r.prom.ObserveDB("tasks.get_owned", func() error {
		var err error
		t, err = scanTask(r.pool.QueryRow(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
			id, userID,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

// UpdateOwned overwrites all mutable fields. The owner filter and the write
// are one statement, so a task that is missing or foreign is simply not hit.
func (r *TasksRepo) UpdateOwned(ctx context.Context, id, userID string, req task.UpdateTaskRequest) (task.Task, error) {
	if !utils.IsUUID(id) {
		return task.Task{}, task.ErrNotFound
	}

	var t task.Task

	err := r.prom.ObserveDB("tasks.update_owned", func() error {
		var err error
		t, err = scanTask(r.pool.QueryRow(ctx,
			`UPDATE tasks
			SET title = $3,
				description = $4,
				status = $5,
				priority = $6,
				deadline = $7,
				updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING `+taskColumns,
			id, userID, req.Title, req.Description, nullableStatus(req.Status), req.Priority, req.Deadline,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) DeleteOwned(ctx context.Context, id, userID string) error {
	if !utils.IsUUID(id) {
		return task.ErrNotFound
	}

	var affected int64

	err := r.prom.ObserveDB("tasks.delete_owned", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted the task is missing or not ours
	if affected == 0 {
		return task.ErrNotFound
	}

	return nil
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var status *string

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&status,
		&t.Priority,
		&t.Deadline,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return task.Task{}, err
	}

	if status != nil {
		t.Status = task.Status(*status)
	}

	return t, nil
}

func nullableStatus(s task.Status) *string {
	if s.IsZero() {
		return nil
	}
	v := string(s)
	return &v
}
