package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"todo-stream.com/todo-stream/internal/broadcast"
	"todo-stream.com/todo-stream/internal/constants"
	dto "todo-stream.com/todo-stream/internal/data_models"
	"todo-stream.com/todo-stream/internal/errors"
	model "todo-stream.com/todo-stream/internal/models"
	repository "todo-stream.com/todo-stream/internal/repositories"
)

// TaskService is the only path to the task store. Every operation takes the
// owner id resolved from the caller's bearer token; the request body is
// never trusted for ownership.
type TaskService struct {
	repo        *repository.TaskRepository
	broadcaster broadcast.Broadcaster
}

func NewTaskService(repo *repository.TaskRepository, broadcaster broadcast.Broadcaster) *TaskService {
	return &TaskService{
		repo:        repo,
		broadcaster: broadcaster,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, req dto.CreateTaskRequest) (*model.Task, error) {
	if req.Title == "" {
		return nil, errors.Validation("title is required")
	}
	if !constants.ValidCategory(constants.TaskCategory(req.Category)) {
		return nil, errors.Validation("category must be one of Work, Personal, Study, Others")
	}
	if !constants.ValidPriority(constants.TaskPriority(req.Priority)) {
		return nil, errors.Validation("priority must be one of Low, Medium, High")
	}
	if _, err := time.Parse(constants.DueDateLayout, req.DueDate); err != nil {
		return nil, errors.Validation("due_date must be a valid YYYY-MM-DD date")
	}

	task, err := s.repo.Create(ctx, &model.Task{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    constants.TaskCategory(req.Category),
		Priority:    constants.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publish(ctx, broadcast.Event{
		OwnerID: ownerID,
		Action:  broadcast.ActionCreated,
		Task:    task,
	})

	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, id string) (*model.Task, error) {
	return s.repo.FindByOwner(ctx, ownerID, id)
}

func (s *TaskService) UpdateTask(ctx context.Context, ownerID, id string, req dto.UpdateTaskRequest) (*model.Task, error) {
	fields, err := patchFields(req)
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return s.repo.FindByOwner(ctx, ownerID, id)
	}

	task, err := s.repo.Update(ctx, ownerID, id, fields)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, broadcast.Event{
		OwnerID: ownerID,
		Action:  broadcast.ActionUpdated,
		Task:    task,
	})

	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.publish(ctx, broadcast.Event{
		OwnerID: ownerID,
		Action:  broadcast.ActionDeleted,
		Task:    broadcast.DeletedTask{ID: id},
	})

	return nil
}

// MarkCompleted flips the task to completed. Completing an already
// completed task succeeds and emits another update event.
func (s *TaskService) MarkCompleted(ctx context.Context, ownerID, id string) (*model.Task, error) {
	completed := true
	return s.UpdateTask(ctx, ownerID, id, dto.UpdateTaskRequest{Completed: &completed})
}

// patchFields turns a partial update into the allow-listed column map the
// repository applies. Only title, description, category, priority, due_date
// and completed can ever appear in the result.
func patchFields(req dto.UpdateTaskRequest) (map[string]any, error) {
	fields := make(map[string]any)

	if req.Title != nil {
		if *req.Title == "" {
			return nil, errors.Validation("title must not be empty")
		}
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		if !constants.ValidCategory(constants.TaskCategory(*req.Category)) {
			return nil, errors.Validation("category must be one of Work, Personal, Study, Others")
		}
		fields["category"] = *req.Category
	}
	if req.Priority != nil {
		if !constants.ValidPriority(constants.TaskPriority(*req.Priority)) {
			return nil, errors.Validation("priority must be one of Low, Medium, High")
		}
		fields["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		if _, err := time.Parse(constants.DueDateLayout, *req.DueDate); err != nil {
			return nil, errors.Validation("due_date must be a valid YYYY-MM-DD date")
		}
		fields["due_date"] = *req.DueDate
	}
	if req.Completed != nil {
		fields["completed"] = *req.Completed
	}

	return fields, nil
}

// publish hands the event to the broadcaster. A failed handoff never fails
// the mutation that produced it.
func (s *TaskService) publish(ctx context.Context, event broadcast.Event) {
	if err := s.broadcaster.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s event: %v", event.Action, err)
	}
}
