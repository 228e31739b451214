package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/slotwise/backend/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	User      *apiHandler.UserHandler
	Task      *apiHandler.TaskHandler
	Schedule  *apiHandler.ScheduleHandler
	Assistant *apiHandler.AssistantHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/v1/users/me", authMiddleware(handlers.User.GetMe))
	r.PUT("/api/v1/users/me", authMiddleware(handlers.User.UpdateMe))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.GET("/api/v1/tasks/{id}/events", authMiddleware(handlers.Task.GetTaskEvents))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/complete", authMiddleware(handlers.Task.CompleteTask))

	r.GET("/api/v1/schedule/free-slots", authMiddleware(handlers.Schedule.FreeSlots))
	r.GET("/api/v1/schedule/summary", authMiddleware(handlers.Schedule.Summary))

	r.POST("/api/v1/assistant/interpret", authMiddleware(handlers.Assistant.Interpret))

	return r
}
