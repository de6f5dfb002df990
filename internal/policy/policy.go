// Package policy decides who may do what to which task or user.
//
// Authorize is pure: it reads only its arguments, never the request or the
// store. Callers pass the session identity explicitly (nil for anonymous).
package policy

import (
	"strings"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// Action names an operation subject to authorization.
type Action string

const (
	ActionLogin        Action = "login"
	ActionRegister     Action = "register"
	ActionViewTasks    Action = "view_tasks"
	ActionFilterTasks  Action = "filter_tasks"
	ActionCreateTask   Action = "create_task"
	ActionViewTask     Action = "view_task"
	ActionEditTask     Action = "edit_task"
	ActionUpdateStatus Action = "update_status"
	ActionDeleteTask   Action = "delete_task"
	ActionListUsers    Action = "list_users"
	ActionAddUser      Action = "add_user"
	ActionEditUser     Action = "edit_user"
	ActionDeleteUser   Action = "delete_user"
)

const (
	loginPath = "/login"
	homePath  = "/"

	msgLoginRequired = "Please log in first."
	msgAssignSelf    = "Users can only assign tasks to themselves."
)

var adminOnlyMessages = map[Action]string{
	ActionListUsers:  "Only admins can view users.",
	ActionAddUser:    "Only admins can add users.",
	ActionEditUser:   "Only admins can edit users.",
	ActionDeleteUser: "Only admins can delete users.",
}

// Target describes what the action is applied to.
type Target struct {
	// AssignedTo is the requested assignee for create_task.
	AssignedTo string
	// Referer is where a denied request should be sent back to.
	Referer string
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed  bool
	Message  string
	Redirect string
}

// Err returns nil for Allow and an *errors.AuthorizationError for Deny.
func (d Decision) Err(actor *auth.Identity) error {
	if d.Allowed {
		return nil
	}
	return &apperrors.AuthorizationError{
		Message:       d.Message,
		Redirect:      d.Redirect,
		Authenticated: actor != nil,
	}
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(message, redirect string) Decision {
	return Decision{Message: message, Redirect: redirect}
}

// Authorize evaluates the rules in precedence order.
func Authorize(actor *auth.Identity, action Action, target Target) Decision {
	if actor == nil {
		if action == ActionLogin || action == ActionRegister {
			return allow()
		}
		return deny(msgLoginRequired, loginPath)
	}

	back := target.Referer
	if back == "" {
		back = homePath
	}

	switch action {
	case ActionViewTasks, ActionFilterTasks:
		// Row-level visibility is applied by CanViewTask.
		return allow()

	case ActionCreateTask:
		if actor.Role != model.RoleAdmin && target.AssignedTo != actor.Username {
			return deny(msgAssignSelf, back)
		}
		return allow()

	case ActionListUsers, ActionAddUser, ActionEditUser, ActionDeleteUser:
		if !actor.IsAdmin() {
			return deny(adminOnlyMessages[action], back)
		}
		return allow()

	case ActionViewTask, ActionEditTask, ActionUpdateStatus, ActionDeleteTask:
		// Any authenticated actor; ownership is not checked.
		return allow()

	case ActionLogin, ActionRegister:
		return allow()
	}

	return deny("Action not permitted.", back)
}

// CanViewTask reports whether task appears in actor's task list. Admins see
// everything; users see tasks assigned to them or whose title mentions their
// username.
func CanViewTask(actor *auth.Identity, task *model.Task) bool {
	if actor == nil || task == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return task.AssignedTo == actor.Username || strings.Contains(task.Title, actor.Username)
}

// VisibleTasks filters tasks down to those CanViewTask allows.
func VisibleTasks(actor *auth.Identity, tasks []model.Task) []model.Task {
	visible := make([]model.Task, 0, len(tasks))
	for i := range tasks {
		if CanViewTask(actor, &tasks[i]) {
			visible = append(visible, tasks[i])
		}
	}
	return visible
}
