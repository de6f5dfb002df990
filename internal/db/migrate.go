package db

import (
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

const touchTriggerName = "tasks_touch_updated_at"

// Migrate creates or upgrades the users and tasks tables and installs the
// trigger that refreshes tasks.updated_at on every row update.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, stmt := range touchTriggerDDL(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install %s trigger: %w", touchTriggerName, err)
		}
	}
	return nil
}

// Reset drops every table owned by the application.
func Reset(db *gorm.DB) error {
	for _, table := range []interface{}{&model.Task{}, &model.User{}} {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

func touchTriggerDDL(dialect string) []string {
	switch dialect {
	case "mysql":
		return []string{
			"DROP TRIGGER IF EXISTS " + touchTriggerName,
			"CREATE TRIGGER " + touchTriggerName + " BEFORE UPDATE ON tasks FOR EACH ROW " +
				"SET NEW.updated_at = CURRENT_TIMESTAMP(3)",
		}
	default:
		// The WHEN guard stops the trigger's own UPDATE from re-firing it.
		return []string{
			"CREATE TRIGGER IF NOT EXISTS " + touchTriggerName + " AFTER UPDATE ON tasks FOR EACH ROW " +
				"WHEN NEW.updated_at = OLD.updated_at BEGIN " +
				"UPDATE tasks SET updated_at = strftime('%Y-%m-%d %H:%M:%f', 'now') WHERE id = NEW.id; " +
				"END",
		}
	}
}
