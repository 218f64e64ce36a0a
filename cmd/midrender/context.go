package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"midrender/internal/config"
	"midrender/internal/farm"
	"midrender/internal/history"
	"midrender/internal/logging"
	"midrender/internal/submit"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	historyOnce sync.Once
	history     *history.Store
	historyErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) farmConfigDir() string {
	cfg, err := c.ensureConfig()
	if err != nil || cfg.Farm.ConfigDir == "" {
		return farm.DefaultConfigDir()
	}
	return cfg.Farm.ConfigDir
}

func (c *commandContext) historyPath() string {
	cfg, err := c.ensureConfig()
	if err == nil && cfg.History.Path != "" {
		return cfg.History.Path
	}
	return filepath.Join(c.farmConfigDir(), "history.db")
}

// ensureHistory opens the submission log once. A nil store with nil error
// means history is disabled.
func (c *commandContext) ensureHistory() (*history.Store, error) {
	c.historyOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.historyErr = err
			return
		}
		if !cfg.History.Enabled {
			return
		}
		c.history, c.historyErr = history.Open(c.historyPath())
	})
	return c.history, c.historyErr
}

func (c *commandContext) submitter() (*submit.Submitter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.ensureLogger()
	store, err := c.ensureHistory()
	if err != nil {
		// Submissions proceed without the local log.
		logger.Warn("history unavailable", logging.Error(err))
		store = nil
	}
	return submit.New(cfg, store, logger), nil
}
