package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gorm.io/gorm"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := os.Getenv("TASKBOARD_CONFIG")
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = *c.configFlag
		}
		c.config, c.configErr = config.LoadFile(path)
	})
	return c.config, c.configErr
}

// withDB opens the configured database for the duration of fn.
func (c *commandContext) withDB(fn func(*gorm.DB) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	gormDB, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gormDB) //nolint:errcheck
	return fn(gormDB)
}

func (c *commandContext) logger(w io.Writer) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.Discard()
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: w})
	if err != nil {
		return logging.Discard()
	}
	return logger
}
