package repository

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todo-stream.com/todo-stream/internal/errors"
	model "todo-stream.com/todo-stream/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	task.ID = uuid.NewString()
	task.CreatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}

	return task, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

// FindByOwner looks a task up by id within the owner's tasks. A task owned
// by someone else and a task that does not exist both come back as
// ErrTaskNotFound.
func (r *TaskRepository) FindByOwner(ctx context.Context, ownerID, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		First(&task, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Update applies an already-validated field map to the owner's task and
// returns the updated row. Callers are responsible for restricting the map
// to mutable fields.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id string, fields map[string]any) (*model.Task, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)

	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errors.ErrTaskNotFound
	}

	return r.FindByOwner(ctx, ownerID, id)
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Task{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrTaskNotFound
	}

	return nil
}
