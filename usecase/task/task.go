// Package task implements calendar task management on top of the pure
// scheduling core: boundary validation, conflict rejection with alternative
// slots, free-time queries, and lifecycle bookkeeping.
package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slotwise/backend/domain"
	appLogger "github.com/slotwise/backend/pkg/logger"
	"github.com/slotwise/backend/repository"
	"github.com/slotwise/backend/scheduling"
	"github.com/slotwise/backend/usecase"
)

type UseCase struct {
	tasks   repository.TaskRepository
	planner repository.PlannerRepository
	users   repository.UserRepository
	buffer  usecase.OperationBuffer
	window  scheduling.DayWindow
	logger  *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	planner repository.PlannerRepository,
	users repository.UserRepository,
	buffer usecase.OperationBuffer,
	window scheduling.DayWindow,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window.Minutes() <= 0 {
		window = scheduling.DefaultWindow()
	}
	return &UseCase{
		tasks:   tasks,
		planner: planner,
		users:   users,
		buffer:  buffer,
		window:  window,
		logger:  logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// TaskEvents returns the task's lifecycle audit trail, newest first.
func (uc *UseCase) TaskEvents(ctx context.Context, id string, limit int) ([]domain.ScheduleEvent, error) {
	if _, err := uc.tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if uc.planner == nil {
		return nil, nil
	}
	return uc.planner.ListEvents(ctx, id, limit)
}

// CreateTask validates the draft, rejects conflicting intervals, and
// persists. On conflict the returned slots are that day's free gaps long
// enough for the task, clipped to its duration, at most three.
func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, []domain.FreeSlot, error) {
	if err := uc.validate(task); err != nil {
		return nil, nil, err
	}

	alternatives, err := uc.checkConflict(ctx, task, "")
	if err != nil {
		return nil, alternatives, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			return task, nil, nil
		}
		return nil, nil, err
	}
	uc.appendEvent(ctx, created, domain.EventTaskCreated)
	return created, nil, nil
}

// UpdateTask re-validates and re-checks conflicts, excluding the task's own
// interval so moving a task within its old slot is allowed.
func (uc *UseCase) UpdateTask(ctx context.Context, task *domain.Task) (*domain.Task, []domain.FreeSlot, error) {
	if err := uc.validate(task); err != nil {
		return nil, nil, err
	}
	if task.ID == "" {
		return nil, nil, domain.ErrInvalidPayload
	}

	alternatives, err := uc.checkConflict(ctx, task, task.ID)
	if err != nil {
		return nil, alternatives, err
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		if err == domain.ErrTaskNotFound {
			return nil, nil, err
		}
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task) {
			return task, nil, nil
		}
		return nil, nil, err
	}
	uc.appendEvent(ctx, task, domain.EventTaskUpdated)
	return task, nil, nil
}

// CompleteTask marks the task done and stamps CompletedAt.
func (uc *UseCase) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return task, nil
	}

	now := time.Now()
	task.Completed = true
	task.CompletedAt = &now

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.appendEvent(ctx, task, domain.EventTaskDone)
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task) {
			return nil
		}
		return err
	}
	uc.appendEvent(ctx, task, domain.EventTaskDeleted)
	return nil
}

// FreeSlots computes the uncovered gaps of the user's day, honoring the
// user's day-window preference when set.
func (uc *UseCase) FreeSlots(ctx context.Context, userID string, day time.Time) ([]domain.FreeSlot, error) {
	window := uc.windowFor(ctx, userID)
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{UserID: userID, Day: day})
	if err != nil {
		return nil, err
	}
	return scheduling.FreeSlots(tasks, day, window), nil
}

// DaySummary aggregates the user's day and fills in the free-minute figure
// from the effective window.
func (uc *UseCase) DaySummary(ctx context.Context, userID string, day time.Time) (*domain.DaySummary, error) {
	window := uc.windowFor(ctx, userID)
	return uc.planner.DaySummary(ctx, userID, day, window.Minutes())
}

func (uc *UseCase) validate(task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	task.Title = domain.NormalizeTitle(task.Title)
	if !task.StartTime.Before(task.EndTime) {
		return domain.ErrInvalidInterval
	}
	if task.Category == "" {
		task.Category = domain.CategoryGeneral
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if !domain.ValidCategory(task.Category) || !domain.ValidPriority(task.Priority) {
		return domain.ErrInvalidPayload
	}
	return nil
}

// checkConflict loads the day's tasks and runs the conflict detector. On
// overlap it returns ErrScheduleConflict along with alternative slots.
func (uc *UseCase) checkConflict(ctx context.Context, task *domain.Task, excludeID string) ([]domain.FreeSlot, error) {
	day := task.StartTime
	existing, err := uc.tasks.List(ctx, repository.TaskFilter{UserID: task.UserID, Day: day})
	if err != nil {
		uc.log(ctx).Warn("conflict check skipped, listing failed", zap.Error(err))
		return nil, nil
	}
	if !scheduling.HasConflict(existing, task.StartTime, task.EndTime, excludeID) {
		return nil, nil
	}

	window := uc.windowFor(ctx, task.UserID)
	need := task.DurationMinutes()
	var alternatives []domain.FreeSlot
	for _, slot := range scheduling.FreeSlots(existing, day, window) {
		if slot.Minutes() < need {
			continue
		}
		alternatives = append(alternatives, domain.FreeSlot{Start: slot.Start, End: slot.Start + need})
		if len(alternatives) == 3 {
			break
		}
	}
	return alternatives, domain.ErrScheduleConflict
}

func (uc *UseCase) windowFor(ctx context.Context, userID string) scheduling.DayWindow {
	window := uc.window
	if uc.users == nil || userID == "" {
		return window
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return window
	}
	if user.DayStartMin > 0 || user.DayEndMin > 0 {
		pref := scheduling.DayWindow{StartMin: user.DayStartMin, EndMin: user.DayEndMin}
		if pref.Minutes() > 0 {
			return pref
		}
	}
	return window
}

func (uc *UseCase) appendEvent(ctx context.Context, task *domain.Task, name string) {
	if uc.planner == nil || task == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"title":      task.Title,
		"start_time": task.StartTime,
		"end_time":   task.EndTime,
	})
	if err != nil {
		return
	}
	event := domain.ScheduleEvent{
		ID:      uuid.NewString(),
		TaskID:  task.ID,
		UserID:  task.UserID,
		Name:    name,
		Payload: payload,
	}
	if err := uc.planner.AppendEvent(ctx, event); err != nil {
		uc.log(ctx).Warn("failed to append schedule event", zap.String("event", name), zap.Error(err))
	}
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.log(ctx).Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.log(ctx).Warn("task operation buffered", zap.String("operation", operation))
	return true
}

// log returns the base logger enriched with the request ID carried by ctx,
// so one request's mutations and their fallout correlate in the output.
func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return appLogger.WithRequestID(ctx, uc.logger)
}
