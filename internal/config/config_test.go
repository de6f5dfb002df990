package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TASKBOARD_CONFIG", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.False(t, cfg.ResetDB)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.toml")
	contents := "server_port = \"9000\"\ndb_driver = \"sqlite\"\nsqlite_path = \"/tmp/file.db\"\nredis_db = 3\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	t.Setenv("TASKBOARD_CONFIG", path)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("RESET_DB", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/file.db", cfg.SQLitePath)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.ResetDB)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("TASKBOARD_CONFIG", "")
	t.Setenv("DB_DRIVER", "postgres")

	_, err := Load()
	assert.Error(t, err)
}
