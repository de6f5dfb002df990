package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/testsupport"
)

func TestUserRepository_CRUD(t *testing.T) {
	gormDB := testsupport.MustOpenDB(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()

	alice := &model.User{Username: "alice", PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, alice))
	assert.NotZero(t, alice.ID)

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := &model.User{Username: "alice", PasswordHash: "y", Role: model.RoleAdmin}
	assert.Error(t, repo.Create(ctx, dup), "unique index rejects duplicate usernames")

	require.NoError(t, repo.Update(ctx, alice.ID, "alice2", model.RoleAdmin))
	got, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.Equal(t, "x", got.PasswordHash)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID), gorm.ErrRecordNotFound)
	_, err = repo.FindByUsername(ctx, "alice2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_TransactionRollsBack(t *testing.T) {
	gormDB := testsupport.MustOpenDB(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(ctx context.Context, tx UserRepository) error {
		if err := tx.Create(ctx, &model.User{Username: "temp", PasswordHash: "x", Role: model.RoleUser}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	exists, err := repo.ExistsByUsername(ctx, "temp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTaskRepository_Lifecycle(t *testing.T) {
	gormDB := testsupport.MustOpenDB(t)
	repo := NewTaskRepository(gormDB)
	ctx := context.Background()

	due := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	task := &model.Task{Title: "Deploy", AssignedTo: "alice", DueDate: &due}
	require.NoError(t, repo.Create(ctx, task))
	assert.Equal(t, model.DefaultStatus, task.Status)

	stored, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", stored.DueDateString())
	assert.False(t, stored.UpdatedAt.IsZero())

	require.NoError(t, repo.Create(ctx, &model.Task{Title: "Review", AssignedTo: "bob", Status: "Done"}))

	done, err := repo.ListByStatus(ctx, "Done")
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "Review", done[0].Title)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	newDue := due.AddDate(0, 1, 0)
	updated, err := repo.Update(ctx, task.ID, TaskFields{Title: "Deploy v2", AssignedTo: "bob", DueDate: &newDue, Status: "Doing"})
	require.NoError(t, err)
	assert.Equal(t, "Deploy v2", updated.Title)
	assert.Equal(t, "bob", updated.AssignedTo)
	assert.Equal(t, "Doing", updated.Status)
	assert.Equal(t, "2026-11-16", updated.DueDateString())

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err = repo.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, task.ID), gorm.ErrRecordNotFound)

	_, err = repo.UpdateStatus(ctx, task.ID, "Done")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskRepository_TriggerRefreshesUpdatedAt(t *testing.T) {
	gormDB := testsupport.MustOpenDB(t)
	repo := NewTaskRepository(gormDB)
	ctx := context.Background()

	task := &model.Task{Title: "Deploy", AssignedTo: "alice"}
	require.NoError(t, repo.Create(ctx, task))

	// Backdate through a statement that writes updated_at itself, which the
	// trigger leaves alone.
	stale := "2000-01-01 00:00:00"
	require.NoError(t, gormDB.Exec("UPDATE tasks SET updated_at = ? WHERE id = ?", stale, task.ID).Error)
	backdated, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, 2000, backdated.UpdatedAt.Year())

	updated, err := repo.UpdateStatus(ctx, task.ID, "Blocked")
	require.NoError(t, err)
	assert.Equal(t, "Blocked", updated.Status)
	assert.True(t, updated.UpdatedAt.After(backdated.UpdatedAt))
	assert.WithinDuration(t, time.Now().UTC(), updated.UpdatedAt, time.Minute)
}
