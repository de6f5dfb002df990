package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/auth"
	"taskboard/internal/lifecycle"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TaskHandler serves the task board.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskRequest is the add/edit task form. Field rules are enforced by the
// lifecycle checks so their messages stay consistent across transports.
type TaskRequest struct {
	Title      string `json:"title" form:"title"`
	AssignedTo string `json:"assigned_to" form:"assigned_to"`
	DueDate    string `json:"due_date" form:"due_date"`
	Status     string `json:"status" form:"status"`
}

func (r TaskRequest) input() lifecycle.Input {
	return lifecycle.Input{
		Title:      r.Title,
		AssignedTo: r.AssignedTo,
		DueDate:    r.DueDate,
		Status:     r.Status,
	}
}

// StatusRequest is the inline status change form.
type StatusRequest struct {
	Status string `json:"status" form:"status"`
}

// TaskListResponse is the board view.
type TaskListResponse struct {
	Tasks  []model.Task   `json:"tasks"`
	Viewer *auth.Identity `json:"viewer"`
	Status string         `json:"status,omitempty"`
}

// TaskResponse wraps a single task and any advisory warning.
type TaskResponse struct {
	Task    *model.Task `json:"task"`
	Warning string      `json:"warning,omitempty"`
}

// Index godoc
// @Summary List visible tasks
// @Tags tasks
// @Produce json
// @Success 200 {object} TaskListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router / [get]
func (h *TaskHandler) Index(c echo.Context) error {
	caller := callerFrom(c)
	tasks, err := h.taskService.ListTasks(c.Request().Context(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, TaskListResponse{Tasks: nonNil(tasks), Viewer: caller.Identity})
}

// Filter godoc
// @Summary List visible tasks with a given status
// @Tags tasks
// @Produce json
// @Param status path string true "Status"
// @Success 200 {object} TaskListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /filter/{status} [get]
func (h *TaskHandler) Filter(c echo.Context) error {
	caller := callerFrom(c)
	status := c.Param("status")
	tasks, err := h.taskService.FilterTasks(c.Request().Context(), caller, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, TaskListResponse{Tasks: nonNil(tasks), Viewer: caller.Identity, Status: status})
}

// Add godoc
// @Summary Create a task
// @Tags tasks
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body TaskRequest true "Task"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /add [post]
func (h *TaskHandler) Add(c echo.Context) error {
	var req TaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.taskService.CreateTask(c.Request().Context(), callerFrom(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, TaskResponse{Task: res.Task, Warning: res.Warning})
}

// Edit godoc
// @Summary Fetch a task for editing
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /edit/{id} [get]
func (h *TaskHandler) Edit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), callerFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, TaskResponse{Task: task})
}

// Update godoc
// @Summary Replace a task's fields
// @Tags tasks
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body TaskRequest true "Task"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /update/{id} [post]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req TaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.taskService.UpdateTask(c.Request().Context(), callerFrom(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, TaskResponse{Task: res.Task, Warning: res.Warning})
}

// UpdateStatus godoc
// @Summary Change a task's status
// @Tags tasks
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body StatusRequest true "Status"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /update_status/{id} [post]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateStatus(c.Request().Context(), callerFrom(c), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, TaskResponse{Task: task})
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /delete/{id} [post]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), callerFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "task deleted", Redirect: "/"})
}

func nonNil(tasks []model.Task) []model.Task {
	if tasks == nil {
		return []model.Task{}
	}
	return tasks
}
