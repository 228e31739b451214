package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/slotwise/backend/scheduling"
)

// LogSink writes reminder notifications to the structured log. It doubles
// as the fallback delivery channel when Redis publishing is disabled.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(n scheduling.Notification) {
	s.logger.Info("reminder",
		zap.String("task_id", n.TaskID),
		zap.String("user_id", n.UserID),
		zap.String("title", n.Title),
		zap.Time("start", n.StartTime))
}

// RedisSink publishes reminder notifications to a per-user pub/sub channel
// so connected clients can render them as toasts or desktop notifications.
type RedisSink struct {
	client  *redislib.Client
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewRedisSink(client *redislib.Client, prefix string, logger *zap.Logger) *RedisSink {
	if prefix == "" {
		prefix = "notify"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSink{
		client:  client,
		prefix:  prefix,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

func (s *RedisSink) Notify(n scheduling.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("failed to encode notification", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	channel := fmt.Sprintf("%s:%s", s.prefix, n.UserID)
	if err := s.client.Publish(ctx, channel, payload).Err(); err != nil {
		s.logger.Warn("notification publish failed",
			zap.String("channel", channel),
			zap.Error(err))
	}
}

// MultiSink fans a notification out to several sinks.
type MultiSink []scheduling.NotificationSink

func (m MultiSink) Notify(n scheduling.Notification) {
	for _, sink := range m {
		if sink != nil {
			sink.Notify(n)
		}
	}
}
