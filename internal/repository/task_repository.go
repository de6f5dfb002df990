package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// TaskFields are the columns a full task edit overwrites.
type TaskFields struct {
	Title      string
	AssignedTo string
	DueDate    *time.Time
	Status     string
}

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id uint) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	ListByStatus(ctx context.Context, status string) ([]model.Task, error)
	Update(ctx context.Context, id uint, fields TaskFields) (*model.Task, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*model.Task, error)
	Delete(ctx context.Context, id uint) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns every task, oldest first.
func (r *taskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByStatus returns tasks whose status matches exactly.
func (r *taskRepository) ListByStatus(ctx context.Context, status string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update overwrites the editable columns of a task and returns the stored row.
func (r *taskRepository) Update(ctx context.Context, id uint, fields TaskFields) (*model.Task, error) {
	return r.mutate(ctx, id, map[string]interface{}{
		"title":       fields.Title,
		"assigned_to": fields.AssignedTo,
		"due_date":    fields.DueDate,
		"status":      fields.Status,
	})
}

// UpdateStatus overwrites the status of a task and returns the stored row.
func (r *taskRepository) UpdateStatus(ctx context.Context, id uint, status string) (*model.Task, error) {
	return r.mutate(ctx, id, map[string]interface{}{"status": status})
}

// Delete removes a task.
func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// mutate applies columns inside one transaction. updated_at is left to the
// database trigger, so the row is re-read after the write.
func (r *taskRepository) mutate(ctx context.Context, id uint, columns map[string]interface{}) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Task{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return err
		}
		return tx.First(&task, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}
