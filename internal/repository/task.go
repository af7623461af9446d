package repository

import (
	"context"
	"errors"

	"carezy/internal/models"

	"gorm.io/gorm"
)

// TaskRepository defines persistence operations for tasks. Every read and
// write is scoped by the owning user id; a task id belonging to another
// user behaves exactly like a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ListByUser(ctx context.Context, userID uint) ([]models.Task, error)
	UpdateStatus(ctx context.Context, userID, taskID uint, status models.TaskStatus) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID uint) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository returns a new TaskRepository implementation.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tasks, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, userID, taskID uint, status models.TaskStatus) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Task", taskID)
		}
		return nil, models.NewInternalError(err)
	}

	task.Status = status
	if err := r.db.WithContext(ctx).Save(&task).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&models.Task{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Task", taskID)
	}
	return nil
}
