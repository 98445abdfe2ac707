package validators

import (
	"testing"

	dto "todo-stream.com/todo-stream/internal/data_models"
)

func TestValidateCreateTaskRequest(t *testing.T) {
	valid := dto.CreateTaskRequest{
		Title:    "Buy milk",
		Category: "Personal",
		Priority: "Low",
		DueDate:  "2025-06-01",
	}
	if err := ValidateCreateTaskRequest(&valid); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	missing := []dto.CreateTaskRequest{
		{Category: "Personal", Priority: "Low", DueDate: "2025-06-01"},
		{Title: "Buy milk", Priority: "Low", DueDate: "2025-06-01"},
		{Title: "Buy milk", Category: "Personal", DueDate: "2025-06-01"},
		{Title: "Buy milk", Category: "Personal", Priority: "Low"},
	}
	for i, req := range missing {
		if err := ValidateCreateTaskRequest(&req); err == nil {
			t.Errorf("case %d: expected error for missing required field", i)
		}
	}
}

func TestValidateUpdateTaskBody(t *testing.T) {
	allowed := []string{
		`{"title":"x"}`,
		`{"description":""}`,
		`{"category":"Work","priority":"High"}`,
		`{"due_date":"2025-06-01","completed":true}`,
		`{}`,
	}
	for _, body := range allowed {
		if err := ValidateUpdateTaskBody([]byte(body)); err != nil {
			t.Errorf("allow-listed body rejected: %s: %v", body, err)
		}
	}

	rejected := []string{
		`{"owner_id":"mallory"}`,
		`{"id":"other"}`,
		`{"created_at":"2020-01-01"}`,
		`{"title":"x","unknown":1}`,
		`not json`,
	}
	for _, body := range rejected {
		if err := ValidateUpdateTaskBody([]byte(body)); err == nil {
			t.Errorf("expected rejection for body: %s", body)
		}
	}
}
