package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/repository"
	"github.com/slotwise/backend/scheduling"
)

type stubTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
}

func newStubTaskRepo(tasks ...domain.Task) *stubTaskRepo {
	repo := &stubTaskRepo{tasks: make(map[string]domain.Task)}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (r *stubTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *stubTaskRepo) List(_ context.Context, _ repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = *task
	return task, nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = *task
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

func (r *stubTaskRepo) ListReminderDue(_ context.Context, now time.Time, lead time.Duration) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []domain.Task
	for _, task := range r.tasks {
		if task.Reminder && !task.ReminderSent && !task.Completed &&
			task.StartTime.After(now) && !task.StartTime.After(now.Add(lead)) {
			due = append(due, task)
		}
	}
	return due, nil
}

func (r *stubTaskRepo) MarkReminderSent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil
	}
	task.ReminderSent = true
	r.tasks[id] = task
	return nil
}

type capturePlanner struct {
	events []domain.ScheduleEvent
}

func (p *capturePlanner) AppendEvent(_ context.Context, event domain.ScheduleEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturePlanner) ListEvents(_ context.Context, _ string, _ int) ([]domain.ScheduleEvent, error) {
	return p.events, nil
}

func (p *capturePlanner) DaySummary(_ context.Context, _ string, day time.Time, windowMinutes int) (*domain.DaySummary, error) {
	return &domain.DaySummary{Date: day, FreeMinutes: windowMinutes}, nil
}

type captureSink struct {
	mu    sync.Mutex
	fired []scheduling.Notification
}

func (s *captureSink) Notify(n scheduling.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired = append(s.fired, n)
}

func TestReminderPoll_FiresOnce(t *testing.T) {
	now := time.Date(2026, time.March, 10, 13, 50, 0, 0, time.UTC)
	repo := newStubTaskRepo(domain.Task{
		ID:        "t1",
		UserID:    "u1",
		Title:     "Standup",
		StartTime: now.Add(10 * time.Minute),
		EndTime:   now.Add(70 * time.Minute),
		Reminder:  true,
	})
	planner := &capturePlanner{}
	sink := &captureSink{}

	rn := NewReminderNotifier(repo, planner, sink, ReminderConfig{
		Interval: 30 * time.Second,
		Lead:     15 * time.Minute,
	}, nil)

	require.NoError(t, rn.Poll(context.Background(), now))
	require.Len(t, sink.fired, 1)
	assert.Equal(t, "t1", sink.fired[0].TaskID)
	assert.Equal(t, "u1", sink.fired[0].UserID)

	stored, err := repo.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, stored.ReminderSent)

	require.Len(t, planner.events, 1)
	assert.Equal(t, domain.EventReminderSent, planner.events[0].Name)

	// The flag is persisted, so the next cycle has nothing to deliver.
	require.NoError(t, rn.Poll(context.Background(), now.Add(time.Minute)))
	assert.Len(t, sink.fired, 1)
}

func TestReminderPoll_OutsideLeadWindow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 13, 0, 0, 0, time.UTC)
	repo := newStubTaskRepo(
		domain.Task{
			ID: "far", UserID: "u1", Title: "Later",
			StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour),
			Reminder: true,
		},
		domain.Task{
			ID: "past", UserID: "u1", Title: "Started",
			StartTime: now.Add(-time.Minute), EndTime: now.Add(time.Hour),
			Reminder: true,
		},
	)
	sink := &captureSink{}

	rn := NewReminderNotifier(repo, &capturePlanner{}, sink, ReminderConfig{
		Interval: 30 * time.Second,
		Lead:     15 * time.Minute,
	}, nil)

	require.NoError(t, rn.Poll(context.Background(), now))
	assert.Empty(t, sink.fired)

	// 45 minutes later the "far" task enters the window.
	require.NoError(t, rn.Poll(context.Background(), now.Add(45*time.Minute)))
	require.Len(t, sink.fired, 1)
	assert.Equal(t, "far", sink.fired[0].TaskID)
}

func TestReminderPoll_ColorsNotificationByPriority(t *testing.T) {
	now := time.Date(2026, time.March, 10, 13, 50, 0, 0, time.UTC)
	repo := newStubTaskRepo(
		domain.Task{
			ID: "plain", UserID: "u1", Title: "Urgent thing",
			StartTime: now.Add(10 * time.Minute), EndTime: now.Add(time.Hour),
			Reminder: true, Priority: domain.PriorityHigh,
		},
		domain.Task{
			ID: "painted", UserID: "u1", Title: "Work thing",
			StartTime: now.Add(12 * time.Minute), EndTime: now.Add(time.Hour),
			Reminder: true, Priority: domain.PriorityHigh, Color: "#3b82f6",
		},
	)
	sink := &captureSink{}

	rn := NewReminderNotifier(repo, &capturePlanner{}, sink, ReminderConfig{
		Interval: 30 * time.Second,
		Lead:     15 * time.Minute,
		PriorityColors: map[domain.Priority]string{
			domain.PriorityHigh: "#ef4444",
		},
	}, nil)

	require.NoError(t, rn.Poll(context.Background(), now))
	require.Len(t, sink.fired, 2)

	colors := map[string]string{}
	for _, n := range sink.fired {
		colors[n.TaskID] = n.Color
	}
	assert.Equal(t, "#ef4444", colors["plain"], "colorless task falls back to the priority palette")
	assert.Equal(t, "#3b82f6", colors["painted"], "an explicit task color wins")
}

func TestReminderPoll_SkipsCompletedAndMuted(t *testing.T) {
	now := time.Date(2026, time.March, 10, 13, 50, 0, 0, time.UTC)
	repo := newStubTaskRepo(
		domain.Task{
			ID: "done", UserID: "u1", Title: "Done",
			StartTime: now.Add(10 * time.Minute), EndTime: now.Add(time.Hour),
			Reminder: true, Completed: true,
		},
		domain.Task{
			ID: "muted", UserID: "u1", Title: "Muted",
			StartTime: now.Add(10 * time.Minute), EndTime: now.Add(time.Hour),
			Reminder: false,
		},
	)
	sink := &captureSink{}

	rn := NewReminderNotifier(repo, &capturePlanner{}, sink, ReminderConfig{
		Interval: 30 * time.Second,
		Lead:     15 * time.Minute,
	}, nil)

	require.NoError(t, rn.Poll(context.Background(), now))
	assert.Empty(t, sink.fired)
}
