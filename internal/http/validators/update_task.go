package validators

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// patchableFields is the explicit allow-list of task fields a partial
// update may touch. Anything else in the payload, id, owner_id and
// created_at included, rejects the whole request.
var patchableFields = map[string]struct{}{
	"title":       {},
	"description": {},
	"category":    {},
	"priority":    {},
	"due_date":    {},
	"completed":   {},
}

func ValidateUpdateTaskBody(body []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	for key := range raw {
		if _, ok := patchableFields[key]; !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "field cannot be updated: "+key)
		}
	}

	return nil
}
