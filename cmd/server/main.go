package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/slotwise/backend/api/handler"
	"github.com/slotwise/backend/internal/config"
	"github.com/slotwise/backend/internal/infrastructure/buffer"
	"github.com/slotwise/backend/internal/infrastructure/monitor"
	pgInfra "github.com/slotwise/backend/internal/infrastructure/postgres"
	redisInfra "github.com/slotwise/backend/internal/infrastructure/redis"
	"github.com/slotwise/backend/internal/middleware"
	"github.com/slotwise/backend/internal/router"
	"github.com/slotwise/backend/internal/services"
	"github.com/slotwise/backend/internal/services/lifecycle"
	"github.com/slotwise/backend/pkg/httpcontext"
	"github.com/slotwise/backend/pkg/logger"
	"github.com/slotwise/backend/repository/postgres"
	redisRepo "github.com/slotwise/backend/repository/redis"
	"github.com/slotwise/backend/scheduling"
	"github.com/slotwise/backend/scheduling/intent"
	assistantUC "github.com/slotwise/backend/usecase/assistant"
	authUC "github.com/slotwise/backend/usecase/auth"
	taskUC "github.com/slotwise/backend/usecase/task"
	userUC "github.com/slotwise/backend/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	plannerRepo := postgres.NewPlannerRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, 24*time.Hour)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	dayWindow := scheduling.DayWindow{
		StartMin: cfg.Scheduler.DayStartMin,
		EndMin:   cfg.Scheduler.DayEndMin,
	}

	intentCfg := intent.DefaultConfig()
	intentCfg.Window = dayWindow
	intentCfg.DefaultDuration = time.Duration(cfg.Scheduler.DefaultDurationMin) * time.Minute
	intentCfg.MaxAlternatives = cfg.Scheduler.MaxAlternatives

	reminderSink := services.MultiSink{services.NewLogSink(zapLogger)}
	if cfg.Notify.Enabled {
		reminderSink = append(reminderSink, services.NewRedisSink(redisClient, cfg.Notify.ChannelPrefix, zapLogger))
	}
	reminder := services.NewReminderNotifier(taskRepo, plannerRepo, reminderSink, services.ReminderConfig{
		Interval:       cfg.Scheduler.ReminderInterval,
		Lead:           cfg.Scheduler.ReminderLead,
		PriorityColors: intentCfg.PriorityColors,
	}, zapLogger)
	reminder.Start()
	manager.Register("reminder_notifier", func(ctx context.Context) error {
		reminder.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger)
	userUseCase := userUC.New(userRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, plannerRepo, userRepo, bufferBridge, dayWindow, zapLogger)
	assistantUseCase := assistantUC.New(taskRepo, plannerRepo, intentCfg, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.Secret, cfg.JWT.Issuer, time.Hour),
		User:      apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Schedule:  apiHandler.NewScheduleHandler(taskUseCase, ctxAdapter, zapLogger),
		Assistant: apiHandler.NewAssistantHandler(assistantUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
