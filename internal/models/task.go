package model

import (
	"time"

	"todo-stream.com/todo-stream/internal/constants"
)

type Task struct {
	ID          string                 `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string                 `gorm:"index;size:36;not null" json:"owner_id"`
	Title       string                 `gorm:"not null" json:"title"`
	Description string                 `json:"description"`
	Category    constants.TaskCategory `gorm:"type:varchar(20);not null" json:"category"`
	Priority    constants.TaskPriority `gorm:"type:varchar(10);not null" json:"priority"`
	DueDate     string                 `gorm:"type:varchar(10);not null" json:"due_date"`
	Completed   bool                   `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time              `json:"created_at"`
}
