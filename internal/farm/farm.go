package farm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// DirName is the product directory created under the platform config root.
	DirName = "MidRender"

	configFileName     = "config.json"
	submissionsDirName = "submissions"
)

// SharedConfig is the monitor-written configuration this core consumes.
// Unknown fields are ignored.
type SharedConfig struct {
	SyncRoot string `json:"sync_root"`
}

// Status classifies the outcome of a farm resolution attempt.
type Status int

const (
	StatusConnected Status = iota
	StatusNoConfig
	StatusNoSyncRoot
	StatusNotInitialized
)

// Connected reports whether submissions may proceed.
func (s Status) Connected() bool { return s == StatusConnected }

// Remediation returns the user-facing message for a non-connected status.
func (s Status) Remediation() string {
	switch s {
	case StatusNoConfig:
		return "MidRender config not found. Is the monitor installed?"
	case StatusNoSyncRoot:
		return "Sync root not set. Configure it in MidRender Monitor."
	case StatusNotInitialized:
		return "Farm not initialized."
	default:
		return ""
	}
}

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusNoConfig:
		return "no config"
	case StatusNoSyncRoot:
		return "sync root unset"
	case StatusNotInitialized:
		return "farm missing"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Connection is the result of one resolution pass.
type Connection struct {
	ConfigDir string
	SyncRoot  string
	FarmRoot  string
	Status    Status
}

// DefaultConfigDir returns the platform per-user MidRender directory: the one
// the monitor writes config.json into.
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), DirName)
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", DirName)
		}
		return filepath.Join(home, "Library", "Application Support", DirName)
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); strings.TrimSpace(xdg) != "" {
			return filepath.Join(xdg, DirName)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", DirName)
		}
		return filepath.Join(home, ".local", "share", DirName)
	}
}

// ReadSharedConfig parses config.json under dir. Any I/O or parse failure is
// reported as absent, never as an error: an unreadable config and a missing
// one require the same remediation.
func ReadSharedConfig(dir string) (SharedConfig, bool) {
	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		return SharedConfig{}, false
	}
	var cfg SharedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SharedConfig{}, false
	}
	return cfg, true
}

// RootName returns the versioned farm directory name for a producer family,
// e.g. "MidRender-v1". Incompatible generations never share a farm directory.
func RootName(product string, generation int) string {
	return fmt.Sprintf("%s-v%d", product, generation)
}

// Resolve performs one resolution pass. It is cheap and cache-free so callers
// can re-run it on every submission attempt.
func Resolve(configDir, product string, generation int) Connection {
	conn := Connection{ConfigDir: configDir}

	cfg, ok := ReadSharedConfig(configDir)
	if !ok {
		conn.Status = StatusNoConfig
		return conn
	}
	if strings.TrimSpace(cfg.SyncRoot) == "" {
		conn.Status = StatusNoSyncRoot
		return conn
	}
	conn.SyncRoot = cfg.SyncRoot

	root := filepath.Join(cfg.SyncRoot, RootName(product, generation))
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		conn.Status = StatusNotInitialized
		return conn
	}

	conn.FarmRoot = root
	conn.Status = StatusConnected
	return conn
}

// SubmissionsDir returns the local dropbox directory the monitor polls,
// creating it if absent.
func SubmissionsDir(configDir string) (string, error) {
	dir := filepath.Join(configDir, submissionsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create submissions directory %q: %w", dir, err)
	}
	return dir, nil
}
