package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/lifecycle"
	"taskboard/internal/model"
	"taskboard/internal/policy"
	"taskboard/internal/repository"
)

// TaskResult is a stored task plus any advisory warning raised while
// preparing it.
type TaskResult struct {
	Task    *model.Task `json:"task"`
	Warning string      `json:"warning,omitempty"`
}

// TaskService applies the authorization policy and lifecycle rules to task
// operations.
type TaskService interface {
	ListTasks(ctx context.Context, caller Caller) ([]model.Task, error)
	FilterTasks(ctx context.Context, caller Caller, status string) ([]model.Task, error)
	CreateTask(ctx context.Context, caller Caller, in lifecycle.Input) (*TaskResult, error)
	GetTask(ctx context.Context, caller Caller, id uint) (*model.Task, error)
	UpdateTask(ctx context.Context, caller Caller, id uint, in lifecycle.Input) (*TaskResult, error)
	UpdateStatus(ctx context.Context, caller Caller, id uint, status string) (*model.Task, error)
	DeleteTask(ctx context.Context, caller Caller, id uint) error
}

type taskService struct {
	tasks  repository.TaskRepository
	users  lifecycle.UserLookup
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new task service.
func NewTaskService(tasks repository.TaskRepository, users lifecycle.UserLookup, logger *slog.Logger) TaskService {
	return &taskService{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// ListTasks returns every task the caller may see.
func (s *taskService) ListTasks(ctx context.Context, caller Caller) ([]model.Task, error) {
	if err := caller.authorize(policy.ActionViewTasks, policy.Target{}); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return policy.VisibleTasks(caller.Identity, tasks), nil
}

// FilterTasks returns visible tasks whose status matches exactly.
func (s *taskService) FilterTasks(ctx context.Context, caller Caller, status string) ([]model.Task, error) {
	if err := caller.authorize(policy.ActionFilterTasks, policy.Target{}); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("filter tasks: %w", err)
	}
	return policy.VisibleTasks(caller.Identity, tasks), nil
}

// CreateTask authorizes the assignment before any lifecycle validation runs.
func (s *taskService) CreateTask(ctx context.Context, caller Caller, in lifecycle.Input) (*TaskResult, error) {
	if err := caller.authorize(policy.ActionCreateTask, policy.Target{AssignedTo: in.AssignedTo}); err != nil {
		return nil, err
	}

	prepared, err := lifecycle.Prepare(ctx, s.users, in, s.now())
	if err != nil {
		return nil, err
	}

	task := &model.Task{}
	prepared.Apply(task)
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created",
		slog.Uint64("task_id", uint64(task.ID)),
		slog.String("by", caller.username()),
		slog.String("assigned_to", task.AssignedTo),
	)
	return &TaskResult{Task: task, Warning: prepared.Warning}, nil
}

// GetTask loads one task for the edit form.
func (s *taskService) GetTask(ctx context.Context, caller Caller, id uint) (*model.Task, error) {
	if err := caller.authorize(policy.ActionViewTask, policy.Target{}); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, translateTaskErr(err)
	}
	return task, nil
}

// UpdateTask runs a full edit through the lifecycle rules. An empty status
// keeps the current one.
func (s *taskService) UpdateTask(ctx context.Context, caller Caller, id uint, in lifecycle.Input) (*TaskResult, error) {
	if err := caller.authorize(policy.ActionEditTask, policy.Target{AssignedTo: in.AssignedTo}); err != nil {
		return nil, err
	}

	current, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, translateTaskErr(err)
	}
	if in.Status == "" {
		in.Status = current.Status
	}

	prepared, err := lifecycle.Prepare(ctx, s.users, in, s.now())
	if err != nil {
		return nil, err
	}

	due := prepared.DueDate
	task, err := s.tasks.Update(ctx, id, repository.TaskFields{
		Title:      prepared.Title,
		AssignedTo: prepared.AssignedTo,
		DueDate:    &due,
		Status:     prepared.Status,
	})
	if err != nil {
		return nil, translateTaskErr(err)
	}

	s.logger.Info("task updated", slog.Uint64("task_id", uint64(id)), slog.String("by", caller.username()))
	return &TaskResult{Task: task, Warning: prepared.Warning}, nil
}

// UpdateStatus overwrites the status unconditionally.
func (s *taskService) UpdateStatus(ctx context.Context, caller Caller, id uint, status string) (*model.Task, error) {
	if err := caller.authorize(policy.ActionUpdateStatus, policy.Target{}); err != nil {
		return nil, err
	}
	status, err := lifecycle.ValidateStatus(status)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, translateTaskErr(err)
	}

	s.logger.Info("task status changed",
		slog.Uint64("task_id", uint64(id)),
		slog.String("by", caller.username()),
		slog.String("status", status),
	)
	return task, nil
}

// DeleteTask removes a task.
func (s *taskService) DeleteTask(ctx context.Context, caller Caller, id uint) error {
	if err := caller.authorize(policy.ActionDeleteTask, policy.Target{}); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return translateTaskErr(err)
	}
	s.logger.Info("task deleted", slog.Uint64("task_id", uint64(id)), slog.String("by", caller.username()))
	return nil
}

func translateTaskErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrTaskNotFound
	}
	return fmt.Errorf("task store: %w", err)
}
