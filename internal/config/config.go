package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Submit contains per-job defaults applied when the user does not pass them
// explicitly.
type Submit struct {
	TemplateID      string `toml:"template_id"`
	ChunkSize       int    `toml:"chunk_size"`
	Priority        int    `toml:"priority"`
	CooldownSeconds int    `toml:"cooldown_seconds"`
}

// Farm identifies the producer family and where the monitor keeps its state.
type Farm struct {
	Product    string `toml:"product"`
	Generation int    `toml:"generation"`
	// ConfigDir overrides the platform per-user MidRender directory,
	// for tests and nonstandard installs.
	ConfigDir string `toml:"config_dir"`
}

// History configures the local submission log.
type History struct {
	Enabled bool `toml:"enabled"`
	// Path overrides the database location; empty means
	// <farm config dir>/history.db.
	Path string `toml:"path"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all producer-side settings.
type Config struct {
	Submit  Submit  `toml:"submit"`
	Farm    Farm    `toml:"farm"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the default location of the producer config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/midrender/config.toml")
}

// Load locates, parses, and validates a configuration file. An absent file
// yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("midrender.config.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.Submit.TemplateID = strings.TrimSpace(c.Submit.TemplateID)
	c.Farm.Product = strings.TrimSpace(c.Farm.Product)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if dir := strings.TrimSpace(c.Farm.ConfigDir); dir != "" {
		expanded, err := ExpandPath(dir)
		if err != nil {
			return err
		}
		c.Farm.ConfigDir = expanded
	} else {
		c.Farm.ConfigDir = ""
	}

	if path := strings.TrimSpace(c.History.Path); path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return err
		}
		c.History.Path = expanded
	} else {
		c.History.Path = ""
	}
	return nil
}

// ExpandPath expands a leading tilde and returns an absolute cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
