package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"todo-stream.com/todo-stream/internal/broadcast"
	"todo-stream.com/todo-stream/internal/constants"
	dto "todo-stream.com/todo-stream/internal/data_models"
	apperrors "todo-stream.com/todo-stream/internal/errors"
	model "todo-stream.com/todo-stream/internal/models"
	repository "todo-stream.com/todo-stream/internal/repositories"
)

// each test gets its own named in-memory database so row counts never
// bleed between tests
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(&model.User{}, &model.Task{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func setupTaskService(t *testing.T) (*TaskService, *broadcast.Hub) {
	db := setupTestDB(t)
	hub := broadcast.NewHub()
	t.Cleanup(hub.Close)

	return NewTaskService(repository.NewTaskRepository(db), hub), hub
}

func validCreateRequest() dto.CreateTaskRequest {
	return dto.CreateTaskRequest{
		Title:       "Buy milk",
		Description: "two liters",
		Category:    "Personal",
		Priority:    "Low",
		DueDate:     "2025-06-01",
	}
}

func TestTaskService_CreateAndList(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "alice", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if task.ID == "" {
		t.Error("expected task ID to be set")
	}
	if task.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if task.OwnerID != "alice" {
		t.Errorf("expected owner alice, got %s", task.OwnerID)
	}
	if task.Completed {
		t.Error("new task must not be completed")
	}

	tasks, err := service.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	got := tasks[0]
	if got.ID != task.ID || got.Title != "Buy milk" || got.Description != "two liters" ||
		got.Category != constants.CategoryPersonal || got.Priority != constants.PriorityLow ||
		got.DueDate != "2025-06-01" {
		t.Errorf("listed task does not match submitted fields: %+v", got)
	}
}

func TestTaskService_ListOrderedNewestFirst(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		req := validCreateRequest()
		req.Title = title
		if _, err := service.CreateTask(ctx, "alice", req); err != nil {
			t.Fatalf("failed to create task %q: %v", title, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	tasks, err := service.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "third" || tasks[2].Title != "first" {
		t.Errorf("tasks not ordered newest first: %s, %s, %s",
			tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestTaskService_CreateValidation(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.CreateTaskRequest)
	}{
		{"empty title", func(r *dto.CreateTaskRequest) { r.Title = "" }},
		{"unknown category", func(r *dto.CreateTaskRequest) { r.Category = "Chores" }},
		{"unknown priority", func(r *dto.CreateTaskRequest) { r.Priority = "Urgent" }},
		{"unparseable due date", func(r *dto.CreateTaskRequest) { r.DueDate = "June 1st" }},
		{"due date with time", func(r *dto.CreateTaskRequest) { r.DueDate = "2025-06-01T10:00:00Z" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			_, err := service.CreateTask(ctx, "alice", req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if apperrors.StatusCode(err) != 400 {
				t.Errorf("expected status 400, got %d", apperrors.StatusCode(err))
			}
		})
	}
}

func TestTaskService_ForeignTaskIndistinguishableFromMissing(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "alice", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	completed := true
	patch := dto.UpdateTaskRequest{Completed: &completed}

	// bob touching alice's task and bob touching a nonexistent id must be
	// the same error
	for name, id := range map[string]string{"foreign": task.ID, "missing": "no-such-id"} {
		if _, err := service.GetTask(ctx, "bob", id); !goerrors.Is(err, apperrors.ErrTaskNotFound) {
			t.Errorf("get %s id: expected ErrTaskNotFound, got %v", name, err)
		}
		if _, err := service.UpdateTask(ctx, "bob", id, patch); !goerrors.Is(err, apperrors.ErrTaskNotFound) {
			t.Errorf("update %s id: expected ErrTaskNotFound, got %v", name, err)
		}
		if err := service.DeleteTask(ctx, "bob", id); !goerrors.Is(err, apperrors.ErrTaskNotFound) {
			t.Errorf("delete %s id: expected ErrTaskNotFound, got %v", name, err)
		}
	}

	// the task is untouched
	got, err := service.GetTask(ctx, "alice", task.ID)
	if err != nil {
		t.Fatalf("owner lost access to own task: %v", err)
	}
	if got.Completed {
		t.Error("foreign update must not have been applied")
	}
}

func TestTaskService_UpdateAppliesPatchedFieldsOnly(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "alice", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	title := "Buy oat milk"
	priority := "High"
	updated, err := service.UpdateTask(ctx, "alice", task.ID, dto.UpdateTaskRequest{
		Title:    &title,
		Priority: &priority,
	})
	if err != nil {
		t.Fatalf("failed to update task: %v", err)
	}

	if updated.Title != "Buy oat milk" || updated.Priority != constants.PriorityHigh {
		t.Errorf("patched fields not applied: %+v", updated)
	}
	if updated.Description != "two liters" || updated.Category != constants.CategoryPersonal {
		t.Errorf("unpatched fields changed: %+v", updated)
	}
	if updated.OwnerID != "alice" || updated.ID != task.ID {
		t.Errorf("immutable fields changed: %+v", updated)
	}
}

func TestTaskService_UpdateValidatesPatchedValues(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "alice", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	bad := "Sometime"
	if _, err := service.UpdateTask(ctx, "alice", task.ID, dto.UpdateTaskRequest{DueDate: &bad}); err == nil {
		t.Error("expected validation error for bad due date")
	}

	empty := ""
	if _, err := service.UpdateTask(ctx, "alice", task.ID, dto.UpdateTaskRequest{Title: &empty}); err == nil {
		t.Error("expected validation error for empty title")
	}
}

func TestTaskService_MarkCompletedIsIdempotent(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	task, err := service.CreateTask(ctx, "alice", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	first, err := service.MarkCompleted(ctx, "alice", task.ID)
	if err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if !first.Completed {
		t.Error("expected completed=true after first call")
	}

	second, err := service.MarkCompleted(ctx, "alice", task.ID)
	if err != nil {
		t.Fatalf("second completion failed: %v", err)
	}
	if !second.Completed {
		t.Error("expected completed=true after second call")
	}
}

func TestTaskService_EveryMutationEmitsOneEvent(t *testing.T) {
	service, hub := setupTaskService(t)
	ctx := context.Background()

	sub, err := hub.Subscribe("alice")
	if err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
	defer sub.Close()

	task, err := service.CreateTask(ctx, "alice", validCreateRequest())
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	event := mustReceive(t, sub)
	if event.Action != broadcast.ActionCreated {
		t.Errorf("expected created event, got %s", event.Action)
	}

	if _, err := service.MarkCompleted(ctx, "alice", task.ID); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	event = mustReceive(t, sub)
	if event.Action != broadcast.ActionUpdated {
		t.Errorf("expected updated event, got %s", event.Action)
	}

	if err := service.DeleteTask(ctx, "alice", task.ID); err != nil {
		t.Fatalf("failed to delete task: %v", err)
	}

	event = mustReceive(t, sub)
	if event.Action != broadcast.ActionDeleted {
		t.Errorf("expected deleted event, got %s", event.Action)
	}
	deleted, ok := event.Task.(broadcast.DeletedTask)
	if !ok || deleted.ID != task.ID {
		t.Errorf("deleted event must carry the id only, got %+v", event.Task)
	}

	// exactly one event per mutation, nothing extra queued
	select {
	case extra := <-sub.Events():
		t.Errorf("unexpected extra event: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTaskService_FailedMutationEmitsNoEvent(t *testing.T) {
	service, hub := setupTaskService(t)
	ctx := context.Background()

	sub, err := hub.Subscribe("bob")
	if err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
	defer sub.Close()

	if err := service.DeleteTask(ctx, "bob", "no-such-id"); err == nil {
		t.Fatal("expected delete to fail")
	}

	select {
	case event := <-sub.Events():
		t.Errorf("failed mutation must not broadcast, got %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTaskService_ConcurrentCreations(t *testing.T) {
	service, _ := setupTaskService(t)

	const concurrentCount = 50
	var wg sync.WaitGroup
	wg.Add(concurrentCount)

	errs := make(chan error, concurrentCount)

	for i := 0; i < concurrentCount; i++ {
		go func() {
			defer wg.Done()
			_, err := service.CreateTask(context.Background(), "alice", validCreateRequest())
			if err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent creation failed: %v", err)
	}

	tasks, _ := service.ListTasks(context.Background(), "alice")
	if len(tasks) != concurrentCount {
		t.Errorf("expected %d tasks, got %d", concurrentCount, len(tasks))
	}
}

func mustReceive(t *testing.T, sub broadcast.Subscription) broadcast.Event {
	t.Helper()

	select {
	case event, ok := <-sub.Events():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
	return broadcast.Event{}
}
