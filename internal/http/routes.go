package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"todo-stream.com/todo-stream/internal/auth"
	middleware "todo-stream.com/todo-stream/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int, validate func(token string) (*auth.Claims, error)) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.POST("/register", h.Register)
	e.POST("/token", h.Token)
	e.POST("/token/refresh", h.RefreshToken)

	authed := e.Group("", middleware.BearerAuth(validate))
	authed.GET("/tasks", h.ListTasks)
	authed.POST("/tasks", h.CreateTask)
	authed.GET("/tasks/:id", h.GetTask)
	authed.PATCH("/tasks/:id", h.UpdateTask)
	authed.DELETE("/tasks/:id", h.DeleteTask)
	authed.POST("/tasks/:id/complete", h.CompleteTask)
	authed.GET("/live/tasks", h.LiveTasks)
}
