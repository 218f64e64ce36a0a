package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSubmit(); err != nil {
		return err
	}
	if err := c.validateFarm(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSubmit() error {
	if c.Submit.TemplateID == "" {
		return errors.New("submit.template_id must be set")
	}
	if c.Submit.ChunkSize < 1 {
		return fmt.Errorf("submit.chunk_size must be at least 1, got %d", c.Submit.ChunkSize)
	}
	if c.Submit.Priority < 1 || c.Submit.Priority > 100 {
		return fmt.Errorf("submit.priority must be between 1 and 100, got %d", c.Submit.Priority)
	}
	if c.Submit.CooldownSeconds < 0 {
		return fmt.Errorf("submit.cooldown_seconds must not be negative, got %d", c.Submit.CooldownSeconds)
	}
	return nil
}

func (c *Config) validateFarm() error {
	if c.Farm.Product == "" {
		return errors.New("farm.product must be set")
	}
	if strings.ContainsAny(c.Farm.Product, `/\`) {
		return fmt.Errorf("farm.product %q must not contain path separators", c.Farm.Product)
	}
	if c.Farm.Generation < 1 {
		return fmt.Errorf("farm.generation must be at least 1, got %d", c.Farm.Generation)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
