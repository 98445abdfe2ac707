package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"todo-stream.com/todo-stream/internal/broadcast"
	dto "todo-stream.com/todo-stream/internal/data_models"
	apperrors "todo-stream.com/todo-stream/internal/errors"
	middleware "todo-stream.com/todo-stream/internal/http/middlewares"
	"todo-stream.com/todo-stream/internal/http/validators"
	"todo-stream.com/todo-stream/internal/services"
)

type Handler struct {
	authService *services.AuthService
	taskService *services.TaskService
	broadcaster broadcast.Broadcaster
}

func NewHandler(
	authService *services.AuthService,
	taskService *services.TaskService,
	broadcaster broadcast.Broadcaster,
) *Handler {
	return &Handler{
		authService: authService,
		taskService: taskService,
		broadcaster: broadcaster,
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.RegisterResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

func (h *Handler) Token(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(c echo.Context) error {
	var req dto.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, tokens)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), ownerID(c), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context(), ownerID(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), ownerID(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if err := validators.ValidateUpdateTaskBody(body); err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), ownerID(c), c.Param("id"), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(c.Request().Context(), ownerID(c), c.Param("id")); err != nil {
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CompleteTask(c echo.Context) error {
	task, err := h.taskService.MarkCompleted(c.Request().Context(), ownerID(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func ownerID(c echo.Context) string {
	id, _ := c.Get(middleware.ContextUserIDKey).(string)
	return id
}

// toHTTPError maps service errors onto the response taxonomy. Anything
// without a known status surfaces as an opaque 500.
func toHTTPError(err error) error {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, "internal server error")
	}
	return echo.NewHTTPError(status, err.Error())
}
