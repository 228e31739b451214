package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/repository"
	"github.com/slotwise/backend/scheduling"
)

// ReminderConfig tunes the reminder poll loop. PriorityColors supplies the
// notification color for tasks that carry none of their own.
type ReminderConfig struct {
	Interval       time.Duration
	Lead           time.Duration
	PriorityColors map[domain.Priority]string
}

// ReminderNotifier polls the task store on a fixed tick and delivers each
// task's reminder exactly once. Each tick runs to completion before cron
// schedules the next, so two cycles never race on the same flag; the
// store-side reminder_sent guard covers multi-instance deployments.
type ReminderNotifier struct {
	tasks   repository.TaskRepository
	planner repository.PlannerRepository
	sink    scheduling.NotificationSink
	cron    *cron.Cron
	cfg     ReminderConfig
	logger  *zap.Logger
}

func NewReminderNotifier(
	tasks repository.TaskRepository,
	planner repository.PlannerRepository,
	sink scheduling.NotificationSink,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderNotifier {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Lead <= 0 {
		cfg.Lead = scheduling.DefaultReminderLead
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rn := &ReminderNotifier{
		tasks:   tasks,
		planner: planner,
		sink:    sink,
		cfg:     cfg,
		logger:  logger,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = rn.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := rn.Poll(ctx, time.Now()); err != nil {
			rn.logger.Error("reminder poll failed", zap.Error(err))
		}
	})

	return rn
}

// Start launches the cron scheduler.
func (rn *ReminderNotifier) Start() {
	if rn == nil || rn.cron == nil {
		return
	}
	rn.cron.Start()
	rn.logger.Info("reminder notifier started", zap.Duration("interval", rn.cfg.Interval))
}

// Stop gracefully stops the scheduler.
func (rn *ReminderNotifier) Stop(ctx context.Context) {
	if rn == nil || rn.cron == nil {
		return
	}
	stopCtx := rn.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rn.logger.Info("reminder notifier stopped")
}

// Poll runs one reminder cycle: load candidates, sweep, persist the flips.
// A failed delivery is the sink's concern and never blocks the flip.
func (rn *ReminderNotifier) Poll(ctx context.Context, now time.Time) error {
	candidates, err := rn.tasks.ListReminderDue(ctx, now, rn.cfg.Lead)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	// Colorless tasks get the priority palette so clients can still rank
	// the notification visually.
	for i := range candidates {
		if candidates[i].Color == "" {
			candidates[i].Color = rn.cfg.PriorityColors[candidates[i].Priority]
		}
	}

	_, fired := scheduling.Sweep(candidates, now, rn.cfg.Lead, rn.sink)
	for _, task := range fired {
		if err := rn.tasks.MarkReminderSent(ctx, task.ID); err != nil {
			rn.logger.Error("failed to persist reminder flag",
				zap.String("task_id", task.ID),
				zap.Error(err))
			continue
		}
		rn.appendEvent(ctx, task)
		rn.logger.Info("reminder delivered",
			zap.String("task_id", task.ID),
			zap.Time("start", task.StartTime))
	}
	return nil
}

func (rn *ReminderNotifier) appendEvent(ctx context.Context, task domain.Task) {
	if rn.planner == nil {
		return
	}
	event := domain.ScheduleEvent{
		TaskID: task.ID,
		UserID: task.UserID,
		Name:   domain.EventReminderSent,
	}
	if err := rn.planner.AppendEvent(ctx, event); err != nil {
		rn.logger.Warn("failed to record reminder event", zap.Error(err))
	}
}
