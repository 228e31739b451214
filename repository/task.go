package repository

import (
	"context"
	"time"

	"github.com/slotwise/backend/domain"
)

// TaskFilter narrows task listings. Day selects tasks starting on that
// calendar day; From/To bound the start time when Day is zero.
type TaskFilter struct {
	UserID    string
	Day       time.Time
	From      time.Time
	To        time.Time
	Completed *bool
	Limit     int
	Offset    int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error

	// ListReminderDue returns tasks whose reminder could fire at now:
	// reminder enabled, not completed, not yet sent, starting before
	// now+lead. The sweep applies the exact window.
	ListReminderDue(ctx context.Context, now time.Time, lead time.Duration) ([]domain.Task, error)

	// MarkReminderSent flips the flag; the store guards the update with
	// reminder_sent = FALSE so the transition stays monotonic.
	MarkReminderSent(ctx context.Context, id string) error
}
