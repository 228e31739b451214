package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/repository"
)

type plannerRepository struct {
	pool *pgxpool.Pool
}

// NewPlannerRepository creates a Postgres-backed PlannerRepository implementation.
func NewPlannerRepository(pool *pgxpool.Pool) repository.PlannerRepository {
	return &plannerRepository{pool: pool}
}

func (r *plannerRepository) AppendEvent(ctx context.Context, event domain.ScheduleEvent) error {
	const query = `
	INSERT INTO schedule_events (id, task_id, user_id, name, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
	`

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	var payload interface{}
	if len(event.Payload) > 0 {
		payload = []byte(event.Payload)
	}

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.TaskID,
		event.UserID,
		event.Name,
		payload,
		nullTime(event.CreatedAt),
	)
	return err
}

func (r *plannerRepository) ListEvents(ctx context.Context, taskID string, limit int) ([]domain.ScheduleEvent, error) {
	const query = `
	SELECT id, task_id, user_id, name, payload, created_at
	FROM schedule_events
	WHERE task_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, taskID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ScheduleEvent
	for rows.Next() {
		var event domain.ScheduleEvent
		var payload []byte
		if err := rows.Scan(
			&event.ID,
			&event.TaskID,
			&event.UserID,
			&event.Name,
			&payload,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			event.Payload = append(event.Payload, payload...)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *plannerRepository) DaySummary(ctx context.Context, userID string, day time.Time, windowMinutes int) (*domain.DaySummary, error) {
	const query = `
	SELECT category,
		COUNT(*),
		COUNT(*) FILTER (WHERE completed),
		COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 60), 0)::int
	FROM tasks
	WHERE user_id = $1
	  AND start_time::date = $2::date
	GROUP BY category
	`
	rows, err := r.pool.Query(ctx, query, userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &domain.DaySummary{
		Date:       day,
		ByCategory: make(map[domain.Category]int),
	}
	for rows.Next() {
		var (
			category  domain.Category
			count     int
			completed int
			minutes   int
		)
		if err := rows.Scan(&category, &count, &completed, &minutes); err != nil {
			return nil, err
		}
		summary.ScheduledCount += count
		summary.CompletedCount += completed
		summary.BusyMinutes += minutes
		summary.ByCategory[category] = minutes
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary.FreeMinutes = windowMinutes - summary.BusyMinutes
	if summary.FreeMinutes < 0 {
		summary.FreeMinutes = 0
	}
	return summary, nil
}
