// Package assistant exposes the natural-language scheduling entry point:
// it feeds the user's upcoming tasks to the intent resolver and persists
// the resulting draft when a slot is free.
package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/slotwise/backend/domain"
	appLogger "github.com/slotwise/backend/pkg/logger"
	"github.com/slotwise/backend/repository"
	"github.com/slotwise/backend/scheduling/intent"
)

// lookahead bounds how far past the reference date tasks are loaded for the
// resolver's conflict check; "next week" is the farthest recognized shift.
const lookahead = 8 * 24 * time.Hour

type UseCase struct {
	tasks   repository.TaskRepository
	planner repository.PlannerRepository
	cfg     intent.Config
	logger  *zap.Logger
}

func New(tasks repository.TaskRepository, planner repository.PlannerRepository, cfg intent.Config, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAlternatives == 0 {
		cfg = intent.DefaultConfig()
	}
	return &UseCase{
		tasks:   tasks,
		planner: planner,
		cfg:     cfg,
		logger:  logger,
	}
}

// Interpret resolves the utterance against the user's calendar. A scheduled
// outcome is persisted before being returned; clarification and conflict
// outcomes are passed through untouched for the client to surface.
func (uc *UseCase) Interpret(ctx context.Context, userID, utterance string, ref time.Time) (domain.IntentResult, error) {
	if utterance == "" {
		return domain.IntentResult{}, domain.ErrInvalidPayload
	}
	if ref.IsZero() {
		ref = time.Now()
	}

	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	existing, err := uc.tasks.List(ctx, repository.TaskFilter{
		UserID: userID,
		From:   dayStart,
		To:     dayStart.Add(lookahead),
	})
	if err != nil {
		return domain.IntentResult{}, err
	}

	result := intent.Resolve(utterance, existing, ref, uc.cfg)
	if result.Status != domain.IntentScheduled {
		return result, nil
	}

	result.Task.UserID = userID
	created, err := uc.tasks.Create(ctx, result.Task)
	if err != nil {
		return domain.IntentResult{}, err
	}
	result.Task = created

	if uc.planner != nil {
		event := domain.ScheduleEvent{
			TaskID: created.ID,
			UserID: userID,
			Name:   domain.EventTaskCreated,
		}
		if err := uc.planner.AppendEvent(ctx, event); err != nil {
			uc.log(ctx).Warn("failed to record assistant event", zap.Error(err))
		}
	}

	uc.log(ctx).Info("utterance scheduled",
		zap.String("user_id", userID),
		zap.String("task_id", created.ID),
		zap.Time("start", created.StartTime))
	return result, nil
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return appLogger.WithRequestID(ctx, uc.logger)
}
