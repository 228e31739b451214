package repository

import (
	"context"
	"time"

	"github.com/slotwise/backend/domain"
)

// PlannerRepository records task lifecycle events and answers per-day
// aggregate queries over the schedule.
type PlannerRepository interface {
	AppendEvent(ctx context.Context, event domain.ScheduleEvent) error
	ListEvents(ctx context.Context, taskID string, limit int) ([]domain.ScheduleEvent, error)

	// DaySummary aggregates one user's tasks for the given calendar day.
	// windowMinutes is used to derive the free-minute figure.
	DaySummary(ctx context.Context, userID string, day time.Time, windowMinutes int) (*domain.DaySummary, error)
}
