package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/db"
	"taskboard/internal/model"
)

// MustOpenDB returns a migrated SQLite database that is closed when the test
// completes.
func MustOpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	gormDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "taskboard.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(gormDB)
	})
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormDB
}

// MustCreateUser inserts a user with a real bcrypt hash of password.
func MustCreateUser(t testing.TB, gormDB *gorm.DB, username, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{Username: username, PasswordHash: hash, Role: role}
	if err := gormDB.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}
