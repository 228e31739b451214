package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/repository"
	"github.com/slotwise/backend/scheduling/intent"
)

type fakeTaskRepo struct {
	tasks   []domain.Task
	created []domain.Task
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	for _, task := range r.tasks {
		if task.ID == id {
			return &task, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		if filter.UserID != "" && task.UserID != filter.UserID {
			continue
		}
		if !filter.From.IsZero() && task.StartTime.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !task.StartTime.Before(filter.To) {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task.ID == "" {
		task.ID = fmt.Sprintf("t%d", len(r.created)+1)
	}
	r.tasks = append(r.tasks, *task)
	r.created = append(r.created, *task)
	return task, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, _ *domain.Task) error { return nil }
func (r *fakeTaskRepo) Delete(_ context.Context, _ string) error       { return nil }

func (r *fakeTaskRepo) ListReminderDue(_ context.Context, _ time.Time, _ time.Duration) ([]domain.Task, error) {
	return nil, nil
}
func (r *fakeTaskRepo) MarkReminderSent(_ context.Context, _ string) error { return nil }

type fakePlanner struct {
	events []domain.ScheduleEvent
}

func (p *fakePlanner) AppendEvent(_ context.Context, event domain.ScheduleEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *fakePlanner) ListEvents(_ context.Context, _ string, _ int) ([]domain.ScheduleEvent, error) {
	return p.events, nil
}

func (p *fakePlanner) DaySummary(_ context.Context, _ string, day time.Time, windowMinutes int) (*domain.DaySummary, error) {
	return &domain.DaySummary{Date: day, FreeMinutes: windowMinutes}, nil
}

var ref = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

func TestInterpret_SchedulesAndPersists(t *testing.T) {
	repo := &fakeTaskRepo{}
	planner := &fakePlanner{}
	uc := New(repo, planner, intent.DefaultConfig(), nil)

	result, err := uc.Interpret(context.Background(), "u1", "Schedule team sync tomorrow at 2pm for 1 hour", ref)
	require.NoError(t, err)
	require.Equal(t, domain.IntentScheduled, result.Status)
	require.NotNil(t, result.Task)

	assert.Equal(t, "Team sync", result.Task.Title)
	assert.Equal(t, "u1", result.Task.UserID)
	assert.Equal(t, time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC), result.Task.StartTime)
	assert.Equal(t, time.Date(2026, time.March, 11, 15, 0, 0, 0, time.UTC), result.Task.EndTime)

	require.Len(t, repo.created, 1, "scheduled draft is persisted")
	require.Len(t, planner.events, 1)
	assert.Equal(t, domain.EventTaskCreated, planner.events[0].Name)
}

func TestInterpret_NeedsTimeDoesNotPersist(t *testing.T) {
	repo := &fakeTaskRepo{}
	uc := New(repo, &fakePlanner{}, intent.DefaultConfig(), nil)

	result, err := uc.Interpret(context.Background(), "u1", "Schedule team sync sometime soon", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentNeedsTime, result.Status)
	assert.Nil(t, result.Task)
	assert.Empty(t, repo.created)
}

func TestInterpret_ConflictPassesThroughAlternatives(t *testing.T) {
	repo := &fakeTaskRepo{tasks: []domain.Task{{
		ID:        "busy",
		UserID:    "u1",
		Title:     "Standup",
		StartTime: time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC),
	}}}
	uc := New(repo, &fakePlanner{}, intent.DefaultConfig(), nil)

	result, err := uc.Interpret(context.Background(), "u1", "Book a review at 2pm", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentConflict, result.Status)
	assert.NotEmpty(t, result.Alternatives)
	assert.Empty(t, repo.created, "conflicting drafts are never persisted")
}

func TestInterpret_EmptyUtterance(t *testing.T) {
	uc := New(&fakeTaskRepo{}, &fakePlanner{}, intent.DefaultConfig(), nil)

	_, err := uc.Interpret(context.Background(), "u1", "", ref)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestInterpret_ConflictOnlyAgainstOwnTasks(t *testing.T) {
	repo := &fakeTaskRepo{tasks: []domain.Task{{
		ID:        "other",
		UserID:    "u2",
		Title:     "Standup",
		StartTime: time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC),
	}}}
	uc := New(repo, &fakePlanner{}, intent.DefaultConfig(), nil)

	result, err := uc.Interpret(context.Background(), "u1", "Book a review at 2pm", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentScheduled, result.Status, "another user's tasks do not block the slot")
}
