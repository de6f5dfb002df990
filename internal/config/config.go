package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds application level configuration loaded from a TOML file and
// environment variables. Environment variables take precedence.
type Config struct {
	ServerPort    string `toml:"server_port"`
	DBDriver      string `toml:"db_driver"`
	MySQLDSN      string `toml:"mysql_dsn"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	RedisPass     string `toml:"redis_password"`
	SessionSecret string `toml:"session_secret"`
	SecureCookies bool   `toml:"secure_cookies"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	ResetDB       bool   `toml:"reset_db"`
	SwaggerHost   string `toml:"swagger_host"`
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerPort:    "8080",
		DBDriver:      DriverMySQL,
		MySQLDSN:      "user:password@tcp(localhost:3306)/taskboard?charset=utf8mb4&parseTime=True&loc=UTC",
		SQLitePath:    "taskboard.db",
		RedisAddr:     "localhost:6379",
		SessionSecret: "change-me",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load builds Config from the optional TASKBOARD_CONFIG file and the
// environment.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("TASKBOARD_CONFIG"))
}

// LoadFile is Load with an explicit config file path; an empty path skips
// the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.DBDriver = strings.ToLower(getEnv("DB_DRIVER", c.DBDriver))
	c.MySQLDSN = getEnv("MYSQL_DSN", c.MySQLDSN)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPass = getEnv("REDIS_PASSWORD", c.RedisPass)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.SecureCookies = getEnvBool("SECURE_COOKIES", c.SecureCookies)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.ResetDB = getEnvBool("RESET_DB", c.ResetDB)
	c.SwaggerHost = getEnv("SWAGGER_HOST", c.SwaggerHost)
}

// Validate reports configuration values the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("db_driver: unsupported value %q", c.DBDriver)
	}
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("session_secret must not be empty")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
