package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"todo-stream.com/todo-stream/internal/auth"
	apperrors "todo-stream.com/todo-stream/internal/errors"
)

// ContextUserIDKey is where the authenticated principal's user id is stored
// on the request context. Handlers derive task ownership from this value
// only, never from the request body.
const ContextUserIDKey = "user_id"

const ContextUsernameKey = "username"

// BearerAuth resolves the bearer token to a principal before the handler
// runs. The token comes from the Authorization header, or from the "token"
// query parameter for websocket handshakes where browsers cannot set
// headers.
func BearerAuth(validate func(token string) (*auth.Claims, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(apperrors.ErrInvalidToken.StatusCode, "missing bearer token")
			}

			claims, err := validate(token)
			if err != nil {
				return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
			}

			c.Set(ContextUserIDKey, claims.UserID)
			c.Set(ContextUsernameKey, claims.Username)

			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.QueryParam("token")
}
