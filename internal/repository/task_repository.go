package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-planner/internal/model"
	"todo-planner/internal/scheduler"
)

// TaskRepository handles CRUD for tasks and implements the scheduler's
// persistence contract.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListActive(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Tags").
		Where("user_id = ? AND is_completed = ?", userID, false).
		Order("due_date NULLS LAST, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Tags").
		Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, task *model.Task, completedAt time.Time) error {
	task.IsCompleted = true
	task.CompletedAt = &completedAt
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// Delete removes a task for the given user. Deleting a template leaves its
// generated instances in place; they carry their own due dates.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) ActiveTemplatesByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Tags").
		Where("user_id = ? AND is_recurring = ? AND is_completed = ?", userID, true, false).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ActiveTemplates(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Tags").
		Where("is_recurring = ? AND is_completed = ?", true, false).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) InstanceExists(ctx context.Context, templateID uint, dueDate time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("original_task_id = ? AND due_date = ?", templateID, dueDate).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TaskRepository) CreateInstance(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	return nil
}

// DeleteExpiredInstances removes incomplete generated instances due before
// the cutoff. Templates and completed instances are never deleted here.
func (r *TaskRepository) DeleteExpiredInstances(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("original_task_id IS NOT NULL AND is_completed = ? AND due_date < ?", false, before).
		Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired instances: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TaskRepository) Stats(ctx context.Context, userID uint, now time.Time) (scheduler.Stats, error) {
	var stats scheduler.Stats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Task{}).
		Where("user_id = ? AND is_recurring = ? AND is_completed = ?", userID, true, false).
		Count(&stats.Templates).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.Task{}).
		Where("user_id = ? AND original_task_id IS NOT NULL", userID).
		Count(&stats.Instances).Error; err != nil {
		return stats, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&model.Task{}).
		Where("user_id = ? AND original_task_id IS NOT NULL AND is_completed = ? AND due_date >= ?", userID, false, today).
		Count(&stats.Upcoming).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&model.Task{}).
		Where("user_id = ? AND original_task_id IS NOT NULL AND is_completed = ? AND due_date < ?", userID, false, today).
		Count(&stats.Overdue).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
