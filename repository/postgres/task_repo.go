package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, description, start_time, end_time,
	completed, completed_at, category, priority, color, reminder, reminder_sent,
	created_at, updated_at`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2::date IS NULL OR start_time::date = $2::date)
	  AND ($3::timestamptz IS NULL OR start_time >= $3)
	  AND ($4::timestamptz IS NULL OR start_time < $4)
	  AND ($5::boolean IS NULL OR completed = $5)
	ORDER BY start_time ASC
	LIMIT $6 OFFSET $7
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		nullTime(filter.Day),
		nullTime(filter.From),
		nullTime(filter.To),
		filter.Completed,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, start_time, end_time,
		completed, completed_at, category, priority, color, reminder, reminder_sent)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.StartTime,
		task.EndTime,
		task.Completed,
		task.CompletedAt,
		task.Category,
		task.Priority,
		task.Color,
		task.Reminder,
		task.ReminderSent,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		start_time = $4,
		end_time = $5,
		completed = $6,
		completed_at = $7,
		category = $8,
		priority = $9,
		color = $10,
		reminder = $11,
		reminder_sent = (reminder_sent OR $12),
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.StartTime,
		task.EndTime,
		task.Completed,
		task.CompletedAt,
		task.Category,
		task.Priority,
		task.Color,
		task.Reminder,
		task.ReminderSent,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) ListReminderDue(ctx context.Context, now time.Time, lead time.Duration) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE reminder = TRUE
	  AND reminder_sent = FALSE
	  AND completed = FALSE
	  AND start_time > $1
	  AND start_time <= $2
	ORDER BY start_time ASC
	`
	rows, err := r.pool.Query(ctx, query, now, now.Add(lead))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) MarkReminderSent(ctx context.Context, id string) error {
	const query = `
	UPDATE tasks
	SET reminder_sent = TRUE, updated_at = NOW()
	WHERE id = $1 AND reminder_sent = FALSE
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Already sent or gone; both are fine, the flag is monotonic.
		return nil
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var completedAt *time.Time

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.StartTime,
		&task.EndTime,
		&task.Completed,
		&completedAt,
		&task.Category,
		&task.Priority,
		&task.Color,
		&task.Reminder,
		&task.ReminderSent,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.CompletedAt = completedAt
	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}
