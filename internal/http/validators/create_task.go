package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "todo-stream.com/todo-stream/internal/data_models"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "category is required")
	}
	if r.Priority == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "priority is required")
	}
	if r.DueDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date is required")
	}
	return nil
}
