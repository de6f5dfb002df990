package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

var (
	admin = &auth.Identity{UserID: 1, Username: "root", Role: model.RoleAdmin}
	alice = &auth.Identity{UserID: 2, Username: "alice", Role: model.RoleUser}
)

func TestAuthorize_Anonymous(t *testing.T) {
	for _, action := range []Action{ActionLogin, ActionRegister} {
		assert.True(t, Authorize(nil, action, Target{}).Allowed, action)
	}

	denied := []Action{
		ActionViewTasks, ActionFilterTasks, ActionCreateTask, ActionViewTask,
		ActionEditTask, ActionUpdateStatus, ActionDeleteTask,
		ActionListUsers, ActionAddUser, ActionEditUser, ActionDeleteUser,
	}
	for _, action := range denied {
		d := Authorize(nil, action, Target{Referer: "/somewhere"})
		assert.False(t, d.Allowed, action)
		assert.Equal(t, "/login", d.Redirect, action)
		assert.Equal(t, "Please log in first.", d.Message, action)
	}
}

func TestAuthorize_CreateTask(t *testing.T) {
	tests := []struct {
		name    string
		actor   *auth.Identity
		target  Target
		allowed bool
	}{
		{"user assigns self", alice, Target{AssignedTo: "alice"}, true},
		{"user assigns other", alice, Target{AssignedTo: "bob", Referer: "/"}, false},
		{"admin assigns other", admin, Target{AssignedTo: "bob"}, true},
		{"admin assigns missing user", admin, Target{AssignedTo: "ghost"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.actor, ActionCreateTask, tt.target)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, "Users can only assign tasks to themselves.", d.Message)
			}
		})
	}
}

func TestAuthorize_ManageUsers(t *testing.T) {
	messages := map[Action]string{
		ActionListUsers:  "Only admins can view users.",
		ActionAddUser:    "Only admins can add users.",
		ActionEditUser:   "Only admins can edit users.",
		ActionDeleteUser: "Only admins can delete users.",
	}
	for action, msg := range messages {
		assert.True(t, Authorize(admin, action, Target{}).Allowed, action)

		d := Authorize(alice, action, Target{Referer: "/tasks"})
		assert.False(t, d.Allowed, action)
		assert.Equal(t, msg, d.Message)
		assert.Equal(t, "/tasks", d.Redirect)
	}
}

func TestAuthorize_TaskMutationsIgnoreOwnership(t *testing.T) {
	for _, action := range []Action{ActionViewTask, ActionEditTask, ActionUpdateStatus, ActionDeleteTask} {
		assert.True(t, Authorize(alice, action, Target{AssignedTo: "bob"}).Allowed, action)
		assert.True(t, Authorize(admin, action, Target{}).Allowed, action)
	}
}

func TestAuthorize_DenyDefaultsRedirectHome(t *testing.T) {
	d := Authorize(alice, ActionAddUser, Target{})
	assert.Equal(t, "/", d.Redirect)
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, Authorize(alice, ActionViewTasks, Target{}).Err(alice))

	err := Authorize(alice, ActionListUsers, Target{}).Err(alice)
	var authErr *apperrors.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.True(t, authErr.Authenticated)

	err = Authorize(nil, ActionListUsers, Target{}).Err(nil)
	require.ErrorAs(t, err, &authErr)
	assert.False(t, authErr.Authenticated)
}

func TestVisibleTasks(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Title: "Deploy", AssignedTo: "alice"},
		{ID: 2, Title: "Review alice's PR", AssignedTo: "bob"},
		{ID: 3, Title: "Unrelated", AssignedTo: "bob"},
		{ID: 4, Title: "Pair with Alice", AssignedTo: "carol"},
	}

	all := VisibleTasks(admin, tasks)
	assert.Len(t, all, 4)

	mine := VisibleTasks(alice, tasks)
	ids := make([]uint, 0, len(mine))
	for _, task := range mine {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []uint{1, 2}, ids)

	assert.Empty(t, VisibleTasks(nil, tasks))
}
